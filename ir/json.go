package ir

import "encoding/json"

// JSON returns a nested snapshot of the subtree: the kind name under "kind",
// scalars as-is, single children as nested snapshots or nil, array children
// as fresh slices. The snapshot shares nothing with the tree and is one-way;
// trees are reconstructed through constructors, not parsed back.
func (n *Node) JSON() map[string]any {
	res := make(map[string]any, len(n.kind.Properties)+1)
	res["kind"] = n.kind.Name
	for i := range n.kind.Properties {
		prop := &n.kind.Properties[i]
		if !prop.IsNode {
			res[prop.Name] = n.scalars[prop.Name]
			continue
		}
		e := n.Edge(prop.Name)
		if prop.IsArray {
			arr := make([]any, 0, e.Count())
			for el := range e.Elements() {
				arr = append(arr, el.JSON())
			}
			res[prop.Name] = arr
			continue
		}
		if v := e.Value(); v != nil {
			res[prop.Name] = v.JSON()
		} else {
			res[prop.Name] = nil
		}
	}
	return res
}

// ToJSON marshals the snapshot of n. Object keys come out sorted, so equal
// trees serialize identically.
func ToJSON(n *Node) ([]byte, error) {
	return json.Marshal(n.JSON())
}
