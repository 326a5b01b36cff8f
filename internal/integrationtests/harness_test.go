package integrationtests

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/circuitgraph/internal/app"
	"github.com/vk/circuitgraph/internal/hcl"
	"github.com/vk/circuitgraph/internal/sink"
	"github.com/vk/circuitgraph/internal/testutil"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	Dir       string
}

// runIntegrationTest writes files under a temporary root, points the app at
// it and runs it once. mutate may adjust the configuration before start.
func runIntegrationTest(t *testing.T, files map[string]string, mutate func(cfg *app.AppConfig)) *HarnessResult {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := &app.AppConfig{
		ConfigPaths: []string{root},
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	if mutate != nil {
		mutate(cfg)
	}

	var out bytes.Buffer
	logs := &testutil.SafeBuffer{}
	result := &HarnessResult{Dir: root}

	a, err := app.NewApp(&out, logs, cfg, hcl.NewLoader())
	if err == nil {
		err = a.Run(context.Background())
	}
	result.Output = out.String()
	result.LogOutput = logs.String()
	result.Err = err
	return result
}

func decodePayloads(t *testing.T, out string) []sink.Payload {
	t.Helper()
	var payloads []sink.Payload
	scanner := bufio.NewScanner(bytes.NewBufferString(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		var p sink.Payload
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		payloads = append(payloads, p)
	}
	require.NoError(t, scanner.Err())
	return payloads
}

func adjacency(ints [][]int) [][]bool {
	adj := make([][]bool, len(ints))
	for i, row := range ints {
		adj[i] = make([]bool, len(row))
		for j, v := range row {
			adj[i][j] = v == 1
		}
	}
	return adj
}
