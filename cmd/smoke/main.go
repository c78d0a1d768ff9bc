// Command smoke walks a running server through one demo tutoring session.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var (
	baseURL = "http://localhost:3000/api"
	client  = &http.Client{Timeout: 10 * time.Second}
)

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// step runs one request and exits on transport failure or an unexpected status.
func step(title, method, url, token string, body interface{}, want int) []byte {
	color.Yellow("\n%s", title)
	resp, raw, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != want {
		color.Red("Status: %s (want %d)", resp.Status, want)
		prettyPrint(raw)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	return raw
}

func data(raw []byte, v interface{}) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		color.Red("Bad envelope: %v", err)
		os.Exit(1)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		color.Red("Bad payload: %v", err)
		os.Exit(1)
	}
}

func adminToken() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return ""
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "smoke",
		"role":    "admin",
		"exp":     time.Now().Add(10 * time.Minute).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		color.Red("Failed to sign admin token: %v", err)
		os.Exit(1)
	}
	return token
}

func main() {
	_ = godotenv.Load()
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		baseURL = v
	}

	color.Cyan("🚀 Starting demo session smoke test against %s\n", baseURL)

	step("[CONTENT] 1. List tutors", http.MethodGet, "/tutors", "", nil, http.StatusOK)

	var room struct {
		RoomID string `json:"room_id"`
		State  string `json:"state"`
	}
	raw := step("[DEMO] 2. Create session", http.MethodPost, "/demo/sessions", "",
		map[string]string{"subject": "math", "topic": "Fractions"}, http.StatusCreated)
	data(raw, &room)
	color.Green("Room: %s (%s)", room.RoomID, room.State)
	path := "/demo/sessions/" + room.RoomID

	step("[DEMO] 3. Join", http.MethodPost, path+"/join", "", nil, http.StatusOK)

	// Demo mode connects after a short delay.
	deadline := time.Now().Add(5 * time.Second)
	for room.State != "connected" {
		if time.Now().After(deadline) {
			color.Red("Session never connected (state %s)", room.State)
			os.Exit(1)
		}
		time.Sleep(250 * time.Millisecond)
		_, raw, err := sendRequest(http.MethodGet, path, "", nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		data(raw, &room)
	}
	color.Green("Connected")

	step("[DEMO] 4. Send chat", http.MethodPost, path+"/messages", "",
		map[string]string{"text": "How do I add 1/2 and 1/3?"}, http.StatusOK)
	step("[DEMO] 5. Toggle mic", http.MethodPost, path+"/mic", "", nil, http.StatusOK)
	step("[SKETCH] 6. Calculator", http.MethodPost, path+"/calculator", "",
		map[string]string{"expression": "1/2 + 1/3"}, http.StatusOK)
	step("[DEMO] 7. Empty chat is rejected", http.MethodPost, path+"/messages", "",
		map[string]string{"text": "   "}, http.StatusBadRequest)
	step("[DEMO] 8. Leave", http.MethodPost, path+"/leave", "", nil, http.StatusOK)

	// Notes are generated once the call-end event lands.
	for i := 0; i < 20; i++ {
		if resp, _, err := sendRequest(http.MethodGet, path+"/notes", "", nil); err == nil && resp.StatusCode == http.StatusOK {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}
	raw = step("[NOTES] 9. Session notes", http.MethodGet, path+"/notes", "", nil, http.StatusOK)
	prettyPrint(raw)
	step("[NOTES] 10. Export markdown", http.MethodGet, path+"/notes/export?format=md", "", nil, http.StatusOK)

	step("[DEMO] 11. Close session", http.MethodDelete, path, "", nil, http.StatusOK)
	step("[DEMO] 12. Closed session is gone", http.MethodGet, path, "", nil, http.StatusNotFound)

	if token := adminToken(); token != "" {
		// Reports are archived asynchronously.
		time.Sleep(time.Second)
		raw = step("[ADMIN] 13. Session reports", http.MethodGet, "/admin/reports?subject=math", token, nil, http.StatusOK)
		prettyPrint(raw)
	} else {
		color.Yellow("\nJWT_SECRET not set, skipping admin checks")
	}

	color.Cyan("\n✅ Smoke test passed")
}
