package property

import (
	"context"

	"amplify/core"

	foxproperty "github.com/fox-one/pkg/property"
)

type propertyStore struct {
	store foxproperty.Store
}

// New wraps a property store into the string-valued registry view.
func New(store foxproperty.Store) core.IPropertyStore {
	return &propertyStore{store: store}
}

func (s *propertyStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

func (s *propertyStore) Save(ctx context.Context, key, value string) error {
	return s.store.Save(ctx, key, value)
}
