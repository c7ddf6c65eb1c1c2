package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hupe1980/teamwork/tool"
)

// maxFetchBytes caps the page content handed back to the model.
const maxFetchBytes = 64 << 10

type askUserArgs struct {
	Question string `json:"question" description:"The question to ask the user"`
}

// newAskUserTool asks the operator a question on out and reads one line of
// input as the answer.
func newAskUserTool(in io.Reader, out io.Writer) tool.Tool {
	var mu sync.Mutex

	reader := bufio.NewReader(in)

	return tool.NewFunctionToolFromStruct("ask_user", "Ask the user a clarifying question and wait for the answer", askUserArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			mu.Lock()
			defer mu.Unlock()

			question, _ := args["question"].(string)
			fmt.Fprintf(out, "\n%s\n> ", question)

			answer, err := reader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read answer: %w", err)
			}

			answer = strings.TrimSpace(answer)
			if answer == "" {
				return "The user did not answer.", nil
			}

			return answer, nil
		})
}

type fetchArgs struct {
	URL string `json:"url" description:"Absolute http(s) URL of the page to fetch"`
}

// newFetchTool downloads a web page with client.
func newFetchTool(client *http.Client) tool.Tool {
	return tool.NewFunctionToolFromStruct("fetch", "Fetch the raw content of a web page", fetchArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			url, _ := args["url"].(string)
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				return nil, tool.NewToolError("fetch", fmt.Sprintf("unsupported URL %q", url), tool.CodeArguments)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}

			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= http.StatusBadRequest {
				return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", url, err)
			}

			if len(body) == maxFetchBytes {
				body = trimPartialRune(body)
			}

			return string(body), nil
		})
}

// trimPartialRune drops a UTF-8 sequence cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if !utf8.RuneStart(b[len(b)-i]) {
			continue
		}

		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i]
		}

		return b
	}

	return b
}

// builtinTools returns the tools workflow files may reference by name.
func builtinTools(in io.Reader, out io.Writer) map[string]tool.Tool {
	return tool.Set(
		newAskUserTool(in, out),
		newFetchTool(&http.Client{Timeout: 30 * time.Second}),
	)
}
