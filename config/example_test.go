package config_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/bastion/config"
)

func ExampleParse() {
	cfg, err := config.Parse([]byte(`
service:
  name: sentiment-api
pipelines:
  - name: predict
    policies:
      - type: timeout
        timeout: 5s
      - type: retry
        max_retries: 2
        base_delay: 50ms
      - type: circuit_breaker
        minimum_throughput: 5
`))
	if err != nil {
		fmt.Println("parse:", err)
		return
	}

	arts, err := cfg.Build()
	if err != nil {
		fmt.Println("build:", err)
		return
	}

	p, _ := arts.Pipelines.Get("predict")
	err = p.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	fmt.Println(p.Name(), err)
	// Output: predict <nil>
}
