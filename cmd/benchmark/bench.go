package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/nulzo/model-registry/internal/catalog"
	"github.com/nulzo/model-registry/internal/cli"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Load-tests GET /v1/models/resolve on a running server. Each request picks
// a random catalog entry; -miss controls the share of unknown selections
// that exercise the default-model fallback.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Server base URL")
	apiKey := flag.String("key", "", "Bearer API key")
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 200, "Requests per second")
	miss := flag.Float64("miss", 0.1, "Fraction of requests with an unknown selection")
	flag.Parse()

	var selections []catalog.Selection
	for _, p := range catalog.Default() {
		for _, m := range p.Models {
			selections = append(selections, catalog.Selection{Provider: p.Name, Model: m.Name})
		}
	}

	header := http.Header{"Content-Type": []string{"application/json"}}
	if *apiKey != "" {
		header.Set("Authorization", "Bearer "+*apiKey)
	}

	targeter := func(t *vegeta.Target) error {
		sel := selections[rand.Intn(len(selections))]
		if rand.Float64() < *miss {
			sel = catalog.Selection{Provider: "nonexistent", Model: "nonexistent"}
		}

		q := url.Values{}
		q.Set("provider", sel.Provider)
		q.Set("model", sel.Model)

		t.Method = http.MethodGet
		t.URL = *baseURL + "/v1/models/resolve?" + q.Encode()
		t.Header = header
		return nil
	}

	fmt.Printf("%s Running resolve benchmark: %s duration, %d req/s against %s\n", cli.Arrow(), *duration, *rate, *baseURL)

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Resolve") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	codes := make([]string, 0, len(metrics.StatusCodes))
	for code, n := range metrics.StatusCodes {
		codes = append(codes, fmt.Sprintf("%s=%d", code, n))
	}
	slices.Sort(codes)
	fmt.Println("Status codes:    ", strings.Join(codes, " "))
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		for i, msg := range metrics.Errors {
			if i == 5 {
				break
			}
			fmt.Println(msg)
		}
	}

	if metrics.Success < 1 {
		log.Fatalf("%s %.2f%% of requests failed", cli.CrossMark(), (1-metrics.Success)*100)
	}
}
