package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"resendrelay/internal/signature"

	"github.com/joho/godotenv"
)

// signpayload signs a webhook payload with RESEND_WEBHOOK_SECRET and either
// prints the resend-signature header value or posts the payload to a relay.
//
//	signpayload -file event.json
//	signpayload -file event.json -send http://localhost:3000/resend-webhook
func main() {
	file := flag.String("file", "-", "Payload file, - for stdin")
	send := flag.String("send", "", "Relay URL to POST the signed payload to")
	flag.Parse()

	_ = godotenv.Load()

	verifier, err := signature.NewVerifier([]byte(os.Getenv("RESEND_WEBHOOK_SECRET")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	payload, err := readPayload(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading payload: %v\n", err)
		os.Exit(1)
	}

	sig := verifier.Sign(payload)
	if *send == "" {
		fmt.Println(sig)
		return
	}

	req, err := http.NewRequest(http.MethodPost, *send, bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.HeaderKey, sig)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending payload: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%d %s\n", resp.StatusCode, bytes.TrimSpace(body))
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
