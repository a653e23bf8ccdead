//go:build integration

package integration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sliced = ";FLAVOR:Marlin\n;LAYER_COUNT:3\n;LAYER:0\nG1 Z0.2 X1\n;LAYER:1\nG1 Z0.4 X1\n;LAYER:2\nG1 Z0.6 X1\n"

// getProjectRoot returns the path to the gpost project root
func getProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	// tests/integration/serve_test.go -> project root
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

// startServer builds gpost and starts "gpost serve" with extra args.
func startServer(t *testing.T, args ...string) (*exec.Cmd, io.WriteCloser, *bufio.Scanner) {
	t.Helper()
	projectRoot := getProjectRoot()

	buildCmd := exec.Command("go", "build", "-o", "dist/gpost", "./cmd/gpost")
	buildCmd.Dir = projectRoot
	output, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))

	cmd := exec.Command(filepath.Join(projectRoot, "dist", "gpost"), append([]string{"serve"}, args...)...)
	cmd.Dir = projectRoot

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)

	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)

	require.NoError(t, cmd.Start())

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	return cmd, stdin, scanner
}

func waitForLine(scanner *bufio.Scanner, timeout time.Duration) bool {
	done := make(chan bool, 1)
	go func() {
		done <- scanner.Scan()
	}()

	select {
	case result := <-done:
		return result
	case <-time.After(timeout):
		return false
	}
}

func sendRequest(t *testing.T, stdin io.Writer, scanner *bufio.Scanner, request string) map[string]interface{} {
	t.Helper()
	_, err := stdin.Write([]byte(request + "\n"))
	require.NoError(t, err)

	require.True(t, waitForLine(scanner, 30*time.Second), "should receive response")

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &response))
	return response
}

func TestServeIntegration_ReadySignal(t *testing.T) {
	cmd, stdin, scanner := startServer(t)
	defer func() {
		stdin.Close()
		cmd.Process.Kill()
	}()

	require.True(t, waitForLine(scanner, 60*time.Second), "should receive ready signal")

	var ready map[string]interface{}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &ready))
	assert.True(t, ready["success"].(bool))
	assert.Equal(t, "ready", ready["type"])

	data := ready["data"].(map[string]interface{})
	assert.Contains(t, data["presets"], "gpost.stop.after-layer")
}

func TestServeIntegration_ProcessPreset(t *testing.T) {
	cmd, stdin, scanner := startServer(t, "--placeholder", "machine_end_gcode=M84")
	defer func() {
		stdin.Close()
		cmd.Process.Kill()
	}()

	require.True(t, waitForLine(scanner, 60*time.Second), "should receive ready signal")

	content, err := json.Marshal(sliced)
	require.NoError(t, err)

	response := sendRequest(t, stdin, scanner,
		`{"type":"process","payload":{"source":"part.gcode","content":`+string(content)+`,"presets":["gpost.stop.after-layer"]}}`)

	assert.True(t, response["success"].(bool), "process should succeed")
	assert.Equal(t, "process", response["type"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, true, data["changed"])
	assert.Contains(t, data["content"], ";BEGIN StopAfterLayer, Stopping after 1 layers\nM84\n")
}

func TestServeIntegration_ProcessInlineScripts(t *testing.T) {
	cmd, stdin, scanner := startServer(t)
	defer func() {
		stdin.Close()
		cmd.Process.Kill()
	}()

	require.True(t, waitForLine(scanner, 60*time.Second), "should receive ready signal")

	chunks, err := json.Marshal([]string{";FLAVOR:Marlin\n", ";LAYER:0\nG1 Z0.2\n", ";LAYER:1\nG1 Z0.4\n"})
	require.NoError(t, err)

	response := sendRequest(t, stdin, scanner,
		`{"type":"process","payload":{"chunks":`+string(chunks)+`,"scripts":[{"id":"pause","name":"Pause","kind":"insert_gcode_at_layer","settings":{"layer_number":"1","macro":"M0"}}]}}`)

	require.True(t, response["success"].(bool), "process should succeed")
	data := response["data"].(map[string]interface{})
	out := data["chunks"].([]interface{})
	require.Len(t, out, 3)
	assert.Equal(t, ";BEGIN InsertGCodeAtLayer, Layer 1\nM0\n;END InsertGCodeAtLayer\n;LAYER:1\nG1 Z0.4\n", out[2])
}

func TestServeIntegration_ProcessBatch(t *testing.T) {
	cmd, stdin, scanner := startServer(t)
	defer func() {
		stdin.Close()
		cmd.Process.Kill()
	}()

	require.True(t, waitForLine(scanner, 60*time.Second), "should receive ready signal")

	response := sendRequest(t, stdin, scanner,
		`{"type":"process_batch","payload":{"items":[`+
			`{"source":"a.gcode","content":";LAYER:0\nG1 Z0.2\n","presets":["gpost.insert.home-at-start"]},`+
			`{"source":"b.gcode","content":";LAYER:0\n","presets":["nope"]}]}}`)

	assert.True(t, response["success"].(bool), "batch should succeed")
	assert.Equal(t, "process_batch", response["type"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["failed"])
	assert.Len(t, data["results"], 2)
}

func TestServeIntegration_CloseCommand(t *testing.T) {
	cmd, stdin, scanner := startServer(t)

	require.True(t, waitForLine(scanner, 60*time.Second), "should receive ready signal")

	_, err := stdin.Write([]byte(`{"type":"close","payload":{}}` + "\n"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "process should exit cleanly")
	case <-time.After(10 * time.Second):
		cmd.Process.Kill()
		t.Fatal("process did not exit in time after close command")
	}
}

// TestServeIntegration_MultipleRequests tests that requests are answered in order
func TestServeIntegration_MultipleRequests(t *testing.T) {
	cmd, stdin, scanner := startServer(t)
	defer func() {
		stdin.Close()
		cmd.Process.Kill()
	}()

	require.True(t, waitForLine(scanner, 60*time.Second), "should receive ready signal")

	for i := 0; i < 5; i++ {
		request := fmt.Sprintf(`{"type":"process","payload":{"content":";LAYER:0\nG1 Z0.%d\n","presets":["gpost.insert.cooldown"]}}`, i+1)
		response := sendRequest(t, stdin, scanner, request)
		require.True(t, response["success"].(bool), "request %d should succeed", i)

		data := response["data"].(map[string]interface{})
		assert.Contains(t, data["content"], fmt.Sprintf("Height 0.%d mm", i+1))
	}
}
