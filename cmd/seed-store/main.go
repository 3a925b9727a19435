// Command seed-store prepares a data directory for the billing server: it
// writes the default product catalog and, when an API key is supplied,
// stores its peppered hash so the server can authenticate mutating
// requests.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/auth"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
	"github.com/gauravMishra08/MKBBbilling/internal/storage/localstore"
)

func main() {
	var (
		dataDir      string
		apiKey       string
		apiKeyPepper string
		force        bool
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory for the JSON data files")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or MKBB_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or MKBB_API_KEY_PEPPER env)")
	flag.BoolVar(&force, "force", false, "overwrite an existing product catalog")
	flag.Parse()

	if apiKey == "" {
		apiKey = os.Getenv("MKBB_SEED_API_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("MKBB_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, apiKey, apiKeyPepper, force); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, dataDir, apiKey, pepper string, force bool) error {
	slog.Info("opening store", slog.String("dir", dataDir))

	store, err := localstore.Open(dataDir)
	if err != nil {
		return errors.Wrap(err, "open store")
	}

	if err := seedProducts(ctx, store, force); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if apiKey != "" {
		if err := seedAPIKey(ctx, store, apiKey, pepper); err != nil {
			return errors.Wrap(err, "seed api key")
		}
	}

	return nil
}

func seedProducts(ctx context.Context, store *localstore.Store, force bool) error {
	repo := localstore.NewProductRepository(store)

	existing, err := repo.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	if len(existing) > 0 && !force {
		slog.Info("products already present, skipping", slog.Int("count", len(existing)))
		return nil
	}

	defaults := product.Defaults()
	if err := repo.Save(ctx, defaults); err != nil {
		return errors.Wrap(err, "save products")
	}

	for _, p := range defaults {
		slog.Info("seeded product", slog.String("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}

func seedAPIKey(ctx context.Context, store *localstore.Store, apiKey, pepper string) error {
	if pepper == "" {
		return errors.New("an API key pepper is required to seed a key")
	}

	repo := localstore.NewAPIKeyRepository(store)
	if err := repo.Put(ctx, auth.APIKeyInfo{
		ID:      "default",
		KeyHash: auth.HashKey(apiKey, []byte(pepper)),
		Name:    "Shop owner key",
		Scopes:  []string{"write"},
	}); err != nil {
		return errors.Wrap(err, "store api key")
	}

	slog.Info("seeded API key", slog.String("id", "default"))
	return nil
}
