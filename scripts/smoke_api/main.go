// Smoke test against a running catalog API: create, rename, search, cascade, delete.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

func baseURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:3000/api"
}

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL()+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	var parsed map[string]interface{}
	_ = json.Unmarshal(raw, &parsed)
	return resp, parsed, nil
}

func step(title, method, url string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, parsed, err := sendRequest(method, url, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(parsed)
	return parsed
}

func dataID(parsed map[string]interface{}) string {
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			return id
		}
	}
	return ""
}

func main() {
	color.Cyan("🚀 Starting feature catalog API smoke test against %s\n", baseURL())

	record := map[string]interface{}{
		"system_name": "Smoke ERP",
		"module":      "Billing",
		"feature":     "Invoice Merge",
		"client":      "Smoke Client",
		"source":      "Smoke Script",
		"description": "Created by the smoke test",
		"sample_url":  "https://example.com/sample.pdf",
	}

	created := step("1. Create record", "POST", "/features/v1", record)
	id := dataID(created)
	if id == "" {
		color.Red("No record id returned, aborting")
		os.Exit(1)
	}

	record["module"] = "Invoicing"
	step("2. Rename module in place", "PUT", "/features/v1/"+id, record)

	step("3. Search with synonym", "GET", "/features/v1/search?q=combine", nil)
	step("4. Cascade modules of Smoke ERP", "GET", "/references/v1/module/cascade?system_name=Smoke%20ERP", nil)
	step("5. Delete record", "DELETE", "/features/v1/"+id, nil)
	step("6. Retired system names", "GET", "/references/v1/system_name/entities?include_inactive=true", nil)

	color.Cyan("\n✅ Smoke test finished")
}
