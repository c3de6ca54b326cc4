package api

import (
	"context"

	json "github.com/goccy/go-json"
)

type docConstructorsJSON struct {
	Docs []*DocConstructor `json:"docs"`
}

// MarshalJSON encodes the batch as {"docs":[...]}.
func (b *DocConstructors) MarshalJSON() ([]byte, error) {
	return json.Marshal(docConstructorsJSON{Docs: b.GetDocs()})
}

// UnmarshalJSON replaces the batch with the decoded docs. Decoding goes
// through the config path, so gids are generated and every doc is validated.
func (b *DocConstructors) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewDocConstructorsFrom(context.Background(), raw)
	if err != nil {
		return err
	}
	return b.docs.Set(built.GetDocs())
}
