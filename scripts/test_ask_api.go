package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// askStream posts a question and prints the event stream as it arrives.
// Returns the session id from the done event, if any.
func askStream(question, sessionId string) string {
	payload := map[string]interface{}{"question": question}
	if sessionId != "" {
		payload["session_id"] = sessionId
	}
	jsonBody, _ := json.Marshal(payload)

	resp, err := http.Post(baseURL+"/chat/v1/ask", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		color.Red("Status %s: %s", resp.Status, string(body))
		return ""
	}

	doneSession := ""
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}
		switch event["type"] {
		case "context":
			color.Blue("  context → components: %v", event["components"])
		case "chunk":
			fmt.Print(event["content"])
		case "done":
			fmt.Println()
			if id, ok := event["session_id"].(string); ok {
				doneSession = id
			}
			color.Green("  done (session: %s)", doneSession)
		case "error":
			fmt.Println()
			color.Red("  error: %v", event["message"])
		}
	}
	return doneSession
}

func main() {
	color.Cyan("🚀 Starting Ask API smoke test\n")

	// 1. Health
	color.Yellow("\n1. Health check")
	resp, body, err := sendRequest("GET", "/healthz", nil)
	if err != nil {
		color.Red("Server not reachable: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s %s", resp.Status, string(body))

	// 2. Graph overview
	color.Yellow("\n2. Corpus graph")
	resp, body, _ = sendRequest("GET", "/corpus/v1/graph", nil)
	color.Green("Status: %s", resp.Status)
	var graphResp map[string]interface{}
	json.Unmarshal(body, &graphResp)
	prettyPrint(graphResp)

	// 3. First ask (mints a session when session mode is on)
	color.Yellow("\n3. Ask: architecture question")
	sessionId := askStream("What are the main components and how do they depend on each other?", "")

	// 4. Follow-up on the same session
	if sessionId != "" {
		color.Yellow("\n4. Follow-up on session %s", sessionId)
		askStream("Which of those would I touch to add a new feature?", sessionId)

		// 5. Destroy the session
		color.Yellow("\n5. Destroy session")
		resp, body, _ = sendRequest("DELETE", "/chat/v1/session/"+sessionId, nil)
		color.Green("Status: %s %s", resp.Status, string(body))
	}

	// 6. Validation error path
	color.Yellow("\n6. Empty question is rejected")
	resp, body, _ = sendRequest("POST", "/chat/v1/ask", map[string]string{"question": "  "})
	if resp.StatusCode == http.StatusBadRequest {
		color.Green("Correctly rejected: %s %s", resp.Status, string(body))
	} else {
		color.Red("Expected 400, got %s", resp.Status)
	}

	color.Cyan("\n✅ Smoke test finished")
}
