package backend

import (
	"fmt"
	"net/url"
	"strings"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
)

// Environment selects the backend deployment.
type Environment string

const (
	Production    Environment = "production"
	Staging       Environment = "staging"
	Preproduction Environment = "preproduction"
)

// BaseURLs are the resolved backend roots of one SDK instance.
type BaseURLs struct {
	Swap string
	Sell string
}

var environments = map[Environment]BaseURLs{
	Production: {
		Swap: "https://swap.ledger.com/v5/swap",
		Sell: "https://buy.api.aws.prd.ldg-tech.com/",
	},
	Staging: {
		Swap: "https://swap-stg.ledger-test.com/v5/swap",
		Sell: "https://buy.api.aws.stg.ldg-tech.com/",
	},
	Preproduction: {
		Swap: "https://swap-ppr.ledger-test.com/v5/swap",
		Sell: "https://buy.api.aws.ppr.ldg-tech.com/",
	},
}

// Endpoints resolves the base URLs for env. A non-empty customURL is used for every exchange type.
func Endpoints(env Environment, customURL string) (BaseURLs, error) {
	if customURL != "" {
		return BaseURLs{Swap: customURL, Sell: customURL}, nil
	}
	if env == "" {
		env = Production
	}
	urls, ok := environments[env]
	if !ok {
		return BaseURLs{}, fmt.Errorf("unknown backend environment %q", env)
	}
	return urls, nil
}

var remitPaths = map[entity.ExchangeType]map[entity.ProductType]string{
	entity.ExchangeSell: {
		entity.ProductCard:          "exchange/v1/sell/card/remit",
		entity.ProductOnRampOffRamp: "exchange/v1/sell/onramp_offramp/remit",
	},
	entity.ExchangeFund: {
		entity.ProductCard: "exchange/v1/fund/card/remit",
	},
}

var defaultProducts = map[entity.ExchangeType]entity.ProductType{
	entity.ExchangeSell: entity.ProductOnRampOffRamp,
	entity.ExchangeFund: entity.ProductCard,
}

// remitPath returns the remit endpoint registered for the pair.
func remitPath(t entity.ExchangeType, p entity.ProductType) (string, error) {
	if p == "" {
		p = defaultProducts[t]
	}
	path, ok := remitPaths[t][p]
	if !ok {
		return "", exchangeerr.New(exchangeerr.KindUnsupportedProductType, exchangeerr.StepPayload, "",
			fmt.Errorf("no remit endpoint for %s/%s", t, p))
	}
	return path, nil
}

// webhookPath escapes id so a backend-issued value cannot address another endpoint.
func webhookPath(id, outcome string) string {
	return fmt.Sprintf("history/webhook/v1/transaction/%s/%s", url.PathEscape(id), outcome)
}

func join(base, path string) string {
	if path == "" {
		return strings.TrimRight(base, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
