// Package serve implements the NDJSON host protocol: one JSON request per line on
// the input, one JSON response per line on the output.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/printkit/gpost/pkg/chunk"
	"github.com/printkit/gpost/pkg/processor"
	"github.com/printkit/gpost/pkg/script"
	"github.com/printkit/gpost/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Config configures a Server.
type Config struct {
	// Processor holds the defaults every request starts from. Request placeholders
	// are merged over Processor.Placeholders.
	Processor processor.Config

	// Presets are the scripts a request can name by ID.
	Presets []*types.Script
}

// Server manages the streaming processor
type Server struct {
	config  Config
	loader  *script.Loader
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(config Config, in io.Reader, out io.Writer) *Server {
	if config.Processor.Logger == nil {
		config.Processor.Logger = types.NoopLogger{}
	}
	return &Server{
		config:  config,
		loader:  script.NewLoader(),
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "process":
		s.handleProcess(req.Payload)
	case "process_batch":
		s.handleProcessBatch(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	ids := make([]string, 0, len(s.config.Presets))
	for _, p := range s.config.Presets {
		ids = append(ids, p.ID)
	}
	s.send("ready", ReadyData{Version: Version, Presets: ids})
}

func (s *Server) handleProcess(payload json.RawMessage) {
	var p ProcessPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("process", err.Error())
		return
	}

	result, err := s.process(p)
	if err != nil {
		s.sendError("process", err.Error())
		return
	}
	s.send("process", result)
}

func (s *Server) handleProcessBatch(payload json.RawMessage) {
	var p ProcessBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("process_batch", err.Error())
		return
	}

	batch := BatchResult{Results: make([]ProcessResult, 0, len(p.Items))}
	for _, item := range p.Items {
		result, err := s.process(item)
		if err != nil {
			batch.Failed++
			batch.Results = append(batch.Results, ProcessResult{Source: item.Source, Error: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, *result)
	}
	s.send("process_batch", batch)
}

// process runs one item through a processor configured for it.
func (s *Server) process(p ProcessPayload) (*ProcessResult, error) {
	scripts, err := s.resolveScripts(p)
	if err != nil {
		return nil, err
	}

	chunks := p.Chunks
	if chunks == nil && p.Content != "" {
		chunks = chunk.Split(p.Content)
	}

	cfg := s.config.Processor
	cfg.Placeholders = mergePlaceholders(cfg.Placeholders, p.Placeholders)
	cfg.ContinueOnError = cfg.ContinueOnError || p.ContinueOnError

	source := types.StreamProvenance{Source: p.Source}.Path()
	cfg.Logger.Debugf("%s: running %d script(s) over %d chunk(s)", source, len(scripts), len(chunks))

	run, err := processor.New(cfg).Run(chunks, scripts)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{
		Source:  source,
		Steps:   run.Steps,
		Changed: run.Changed(),
	}
	if p.Chunks == nil && p.Content != "" {
		result.Content = chunk.Join(run.Chunks)
	} else {
		result.Chunks = run.Chunks
	}
	return result, nil
}

func (s *Server) resolveScripts(p ProcessPayload) ([]*types.Script, error) {
	var scripts []*types.Script
	switch {
	case len(p.Scripts) > 0:
		// inline JSON scripts get the same defaults as a pipeline file
		var err error
		scripts, err = s.loader.LoadPipeline([]byte(`{"scripts":` + string(p.Scripts) + `}`))
		if err != nil {
			return nil, err
		}
	case len(p.Presets) > 0:
		var err error
		scripts, err = script.Select(s.config.Presets, p.Presets)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no scripts or presets given")
	}

	if err := script.ValidatePipeline(scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

func mergePlaceholders(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[strings.TrimSpace(k)] = v
	}
	return merged
}

func (s *Server) send(respType string, v interface{}) {
	data, _ := json.Marshal(v)
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
