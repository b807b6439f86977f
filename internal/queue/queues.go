package queue

import "path/filepath"

// Queues bundles the three queue directories in the persisted layout
// (Queues/Confirmed, Queues/Pending, Queues/Claims).
type Queues struct {
	Confirmed *FileQueue
	Pending *FileQueue
	Claims *FileQueue
}

// Open opens (creating if necessary) all three queue directories under
// jsonDir/Queues.
func Open(jsonDir string) (*Queues, error) {
	root := filepath.Join(jsonDir, "Queues")
	confirmed, err := OpenDir(filepath.Join(root, "Confirmed"))
	if err != nil {
 return nil, err
	}
	pending, err := OpenDir(filepath.Join(root, "Pending"))
	if err != nil {
 return nil, err
	}
	claims, err := OpenDir(filepath.Join(root, "Claims"))
	if err != nil {
 return nil, err
	}
	return &Queues{Confirmed: confirmed, Pending: pending, Claims: claims}, nil
}
