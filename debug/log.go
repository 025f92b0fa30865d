package debug

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshotter is anything that can render itself as a nested JSON-style
// snapshot. ir.Node satisfies it; keeping it an interface here avoids an
// import cycle between debug and ir.
type Snapshotter interface {
	JSON() map[string]any
}

// Tree wraps a Snapshotter for pretty debug printing.
type Tree struct{ Snapshotter }

func (t Tree) String() string {
	if t.Snapshotter == nil {
		return "<nil>"
	}
	d, err := json.MarshalIndent(t.JSON(), "", "  ")
	if err != nil {
		return fmt.Sprintf("[raw] %v", t.Snapshotter)
	}
	return string(d)
}

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case Snapshotter:
			args[i] = Tree{x}.String()
		case map[string]any, []any:
			d, err := json.Marshal(x)
			if err != nil {
				args[i] = fmt.Sprintf("%v", x)
				continue
			}
			args[i] = string(d)
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
