package backend

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"golang.org/x/text/encoding"

	"github.com/gg582/skkfe/internal/jisyo"
	"github.com/gg582/skkfe/internal/types"
)

const DefaultRemoteTimeout = 500 * time.Millisecond

// maxServerCompletions bounds the follow-up lookups a completion request
// issues against the server.
const maxServerCompletions = 32

// SkkServ queries an skkserv-protocol server. Every request opens its own
// connection and is bounded by the timeout; failures yield no candidates.
type SkkServ struct {
	Addr    string
	Timeout time.Duration
	enc     encoding.Encoding
	dialer  net.Dialer
}

func NewSkkServ(host string, port int, encodingName string, timeout time.Duration) (*SkkServ, error) {
	enc, err := jisyo.Encoding(encodingName)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &SkkServ{
		Addr:    net.JoinHostPort(host, fmt.Sprint(port)),
		Timeout: timeout,
		enc:     enc,
	}, nil
}

func (s *SkkServ) Name() string { return "skkserv:" + s.Addr }

func (s *SkkServ) Remote() bool { return true }

// Lookup sends "1word " and reads a "1/c1/c2/" reply. Okuri-ari headwords
// use the same request form.
func (s *SkkServ) Lookup(ctx context.Context, _ types.OkuriType, word string) []string {
	reply, err := s.request(ctx, "1"+word+" ")
	if err != nil {
		tracer().Debugf("skkserv lookup %q: %v", word, err)
		return nil
	}
	return parseServerReply(reply)
}

// Complete sends "4prefix " and looks up each returned headword. The
// whole exchange shares one timeout; headwords not looked up by then are
// dropped.
func (s *SkkServ) Complete(ctx context.Context, prefix string) []jisyo.Entry {
	if prefix == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	reply, err := s.request(ctx, "4"+prefix+" ")
	if err != nil {
		tracer().Debugf("skkserv completion %q: %v", prefix, err)
		return nil
	}
	words := parseServerReply(reply)
	if len(words) > maxServerCompletions {
		words = words[:maxServerCompletions]
	}
	var out []jisyo.Entry
	for _, word := range words {
		if ctx.Err() != nil {
			tracer().Debugf("skkserv completion %q: timed out after %d entries", prefix, len(out))
			break
		}
		if cands := s.Lookup(ctx, types.OkuriNasi, word); len(cands) > 0 {
			out = append(out, jisyo.Entry{Word: word, Candidates: cands})
		}
	}
	return out
}

func (s *SkkServ) request(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	conn, err := s.dialer.DialContext(ctx, "tcp", s.Addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	encoded, err := s.enc.NewEncoder().String(command)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	if _, err := io.WriteString(conn, encoded); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	// Politely end the session; the reply has already been read.
	_, _ = io.WriteString(conn, "0")

	decoded, err := s.enc.NewDecoder().String(line)
	if err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	return strings.TrimRight(decoded, "\r\n"), nil
}

func parseServerReply(reply string) []string {
	if !strings.HasPrefix(reply, "1") {
		return nil
	}
	var out []string
	for _, part := range strings.Split(strings.Trim(reply[1:], "/"), "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
