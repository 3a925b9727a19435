package localstore

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/auth"
)

const apiKeysKey = "apikeys"

// ErrAPIKeyNotFound is returned when no stored key matches the hash.
var ErrAPIKeyNotFound = errors.New("api key not found")

var _ auth.Repository = (*APIKeyRepository)(nil)

// APIKeyRepository provides API key lookups over the local store. The key
// set is tiny, one or two entries seeded at install time, so lookups scan
// the whole list.
type APIKeyRepository struct {
	store *Store
}

// NewAPIKeyRepository returns an APIKeyRepository using the given store.
func NewAPIKeyRepository(store *Store) *APIKeyRepository {
	return &APIKeyRepository{store: store}
}

// FindByHash looks up an API key by its HMAC-SHA256 hash.
// Returns an error wrapping ErrAPIKeyNotFound when no key matches.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*auth.APIKeyInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].KeyHash == hash {
			return &keys[i], nil
		}
	}
	return nil, ErrAPIKeyNotFound
}

// Put inserts or replaces an API key by ID. Used by the seeding tool.
func (r *APIKeyRepository) Put(ctx context.Context, info auth.APIKeyInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	keys, err := r.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range keys {
		if keys[i].ID == info.ID {
			keys[i] = info
			replaced = true
			break
		}
	}
	if !replaced {
		keys = append(keys, info)
	}

	if err := r.store.Set(apiKeysKey, encodeAPIKeys(keys)); err != nil {
		return errors.Wrap(err, "save api keys")
	}
	return nil
}

func (r *APIKeyRepository) load() ([]auth.APIKeyInfo, error) {
	data, ok, err := r.store.Get(apiKeysKey)
	if err != nil {
		return nil, errors.Wrap(err, "load api keys")
	}
	if !ok {
		return nil, nil
	}
	keys, err := decodeAPIKeys(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode api keys")
	}
	return keys, nil
}

func encodeAPIKeys(keys []auth.APIKeyInfo) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.ArrStart()
	for _, k := range keys {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(k.ID)
		e.FieldStart("key_hash")
		e.Str(k.KeyHash)
		e.FieldStart("name")
		e.Str(k.Name)
		e.FieldStart("scopes")
		e.ArrStart()
		for _, s := range k.Scopes {
			e.Str(s)
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeAPIKeys(data []byte) ([]auth.APIKeyInfo, error) {
	d := jx.DecodeBytes(data)
	var out []auth.APIKeyInfo
	if err := d.Arr(func(d *jx.Decoder) error {
		var k auth.APIKeyInfo
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				k.ID, err = d.Str()
			case "key_hash":
				k.KeyHash, err = d.Str()
			case "name":
				k.Name, err = d.Str()
			case "scopes":
				err = d.Arr(func(d *jx.Decoder) error {
					s, err := d.Str()
					if err != nil {
						return err
					}
					k.Scopes = append(k.Scopes, s)
					return nil
				})
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		out = append(out, k)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
