package latex

import "encoding/json"

// JSON encoding adds "type" discriminator to every node, so that the tree
// can be consumed by tools expecting unified-latex layout.

func (n *String) MarshalJSON() ([]byte, error) {
	type plain String
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Whitespace) MarshalJSON() ([]byte, error) {
	type plain Whitespace
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Parbreak) MarshalJSON() ([]byte, error) {
	type plain Parbreak
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Macro) MarshalJSON() ([]byte, error) {
	type plain Macro
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Argument) MarshalJSON() ([]byte, error) {
	type plain Argument
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Group) MarshalJSON() ([]byte, error) {
	type plain Group
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *InlineMath) MarshalJSON() ([]byte, error) {
	type plain InlineMath
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *DisplayMath) MarshalJSON() ([]byte, error) {
	type plain DisplayMath
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Environment) MarshalJSON() ([]byte, error) {
	type plain Environment
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *MathEnv) MarshalJSON() ([]byte, error) {
	type plain MathEnv
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Verbatim) MarshalJSON() ([]byte, error) {
	type plain Verbatim
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Verb) MarshalJSON() ([]byte, error) {
	type plain Verb
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Root) MarshalJSON() ([]byte, error) {
	type plain Root
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}
