package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/agnr/internal/config"
	"github.com/dyluth/agnr/internal/printer"
	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// storeFlags override the store section of agnr.yml.
type storeFlags struct {
	redisURL  string
	namespace string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "Redis URL of the catalog (overrides store.redis_url)")
	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "Catalog namespace (overrides store.namespace)")
}

// resolve merges flags over the config file's store section.
func (f *storeFlags) resolve(cfg *config.AgnrConfig) (url, namespace string) {
	url, namespace = cfg.Store.RedisURL, cfg.Store.Namespace
	if f.redisURL != "" {
		url = f.redisURL
	}
	if f.namespace != "" {
		namespace = f.namespace
	}
	return url, namespace
}

// openCatalog connects to the configured catalog and verifies it responds.
func openCatalog(ctx context.Context, p *printer.Printer, url, namespace string) (*catalog.Client, error) {
	if url == "" {
		return nil, p.Error(
			"no catalog configured",
			"This command needs a Redis catalog, but no Redis URL was given.",
			[]string{
				"Pass one on the command line:\n  --redis-url redis://localhost:6379",
				"Set store.redis_url in agnr.yml",
			},
		)
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, p.Error(
			"invalid Redis URL",
			err.Error(),
			[]string{"Use the form redis://[user:password@]host:port[/db]"},
		)
	}

	client, err := catalog.NewClient(opts, namespace)
	if err != nil {
		return nil, p.Error("invalid namespace", err.Error(), []string{"Pass a namespace like --namespace ribbons"})
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, p.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", opts.Addr),
			map[string]string{"Namespace": namespace, "Error": err.Error()},
			[]string{"Check that Redis is running and reachable, then retry"},
		)
	}
	return client, nil
}
