package cache

import (
	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

const currentVersion = 1

type document struct {
	Version int                `yaml:"version"`
	Slot    string             `yaml:"slot"`
	Tree    []*navigation.Node `yaml:"tree"`
}

// Encode serializes a tree into the slot document format
func Encode(slot string, tree []*navigation.Node) ([]byte, error) {
	data, err := yaml.Marshal(document{
		Version: currentVersion,
		Slot:    slot,
		Tree:    tree,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

func Decode(data []byte) ([]*navigation.Node, error) {
	var doc document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WithStack(err)
	}

	if doc.Version != currentVersion {
		return nil, errors.Errorf("unexpected cache document version %d", doc.Version)
	}

	utcTimes(doc.Tree)

	return doc.Tree, nil
}

func utcTimes(nodes []*navigation.Node) {
	for _, n := range nodes {
		if !n.CreatedAt.IsZero() {
			n.CreatedAt = n.CreatedAt.UTC()
		}

		if !n.UpdatedAt.IsZero() {
			n.UpdatedAt = n.UpdatedAt.UTC()
		}

		utcTimes(n.Children)
	}
}
