package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adfharrison1/go-filter/pkg/codec"
	"github.com/adfharrison1/go-filter/pkg/domain"
)

const batchSize = 500

// randomRepo generates a repository record shaped like filter.example.yaml expects
func randomRepo(i int) domain.Record {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 8)
	for j := range name {
		name[j] = letters[rand.Intn(len(letters))]
	}
	return domain.Record{
		"name":             fmt.Sprintf("%s-%d", name, i),
		"forks":            rand.Intn(500),
		"stargazers_count": rand.Intn(20000),
		"updated_at":       time.Now().Add(-time.Duration(rand.Intn(1000)) * time.Hour).UTC().Format(time.RFC3339),
		"fork":             rand.Intn(5) == 0,
		"owner":            map[string]interface{}{"login": fmt.Sprintf("user%d", rand.Intn(50))},
	}
}

// postBatch sends one codec batch to POST /records
func postBatch(baseURL string, records []domain.Record) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, records); err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	resp, err := http.Post(baseURL+"/records", codec.ContentType, &buf)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// query runs GET /records and returns the match count
func query(baseURL string, params url.Values) (int, error) {
	resp, err := http.Get(baseURL + "/records?" + params.Encode())
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.Count, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run test_scripts/load_records.go <number_of_records> [server_url]")
		fmt.Println("Example: go run test_scripts/load_records.go 100000 http://localhost:8080")
		fmt.Println("The server should be started with --config filter.example.yaml")
		os.Exit(1)
	}

	numRecords, err := strconv.Atoi(os.Args[1])
	if err != nil || numRecords <= 0 {
		fmt.Printf("Error: Invalid number of records '%s'\n", os.Args[1])
		os.Exit(1)
	}

	serverURL := "http://localhost:8080"
	if len(os.Args) >= 3 {
		serverURL = os.Args[2]
	}

	fmt.Printf("Starting load test: inserting %d records to %s\n", numRecords, serverURL)

	startTime := time.Now()
	errorCount := 0
	for sent := 0; sent < numRecords; sent += batchSize {
		n := min(batchSize, numRecords-sent)
		batch := make([]domain.Record, n)
		for i := range batch {
			batch[i] = randomRepo(sent + i)
		}
		if err := postBatch(serverURL, batch); err != nil {
			errorCount++
			fmt.Printf("Error inserting batch at %d: %v\n", sent, err)
		}
	}
	insertTime := time.Since(startTime)

	queries := []url.Values{
		{"forks": {">=20"}},
		{"stars": {"[416,703]"}},
		{"fork": {"true"}},
		{"fork": {"false"}, "forks": {"<100"}, "_sort": {"stars"}},
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Records inserted:      %d\n", numRecords)
	fmt.Printf("Failed batches:        %d\n", errorCount)
	fmt.Printf("Insert time:           %v\n", insertTime)

	for _, q := range queries {
		start := time.Now()
		count, err := query(serverURL, q)
		if err != nil {
			errorCount++
			fmt.Printf("Query %s failed: %v\n", q.Encode(), err)
			continue
		}
		fmt.Printf("Query %-40s %7d matches in %v\n", q.Encode(), count, time.Since(start))
	}

	if errorCount > 0 {
		os.Exit(1)
	}
}
