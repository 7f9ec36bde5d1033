package printer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ApplyPrinterSettings injects a printer's ZPL preamble (darkness, print
// speed, print mode, copies, rotation) right after every ^XA in zpl. If zpl
// has no ^XA at all, it is wrapped in one fresh label so the settings still
// land before any field commands.
func ApplyPrinterSettings(zpl string, p Printer) (string, error) {
	settings, err := buildPrintSettings(p)
	if err != nil {
		return "", err
	}
	if len(settings) == 0 {
		return zpl, nil
	}
	block := strings.Join(settings, "\n") + "\n"

	if strings.Contains(zpl, "^XA") {
		parts := strings.Split(zpl, "^XA")
		var out strings.Builder
		out.WriteString(parts[0])
		for _, part := range parts[1:] {
			out.WriteString("^XA")
			out.WriteString(block)
			out.WriteString(part)
		}
		return out.String(), nil
	}
	return "^XA" + block + zpl + "\n^XZ\n", nil
}

func buildPrintSettings(p Printer) ([]string, error) {
	var settings []string

	if p.ZPL.Darkness != nil {
		settings = append(settings, fmt.Sprintf("^MD%d", *p.ZPL.Darkness))
	}
	if p.ZPL.PrintSpeed != nil {
		settings = append(settings, fmt.Sprintf("^PR%d", *p.ZPL.PrintSpeed))
	}
	if p.ZPL.PrintMode != "" {
		code, ok := printModeCode(p.ZPL.PrintMode)
		if !ok {
			return nil, fmt.Errorf("unsupported print_mode: %s", p.ZPL.PrintMode)
		}
		settings = append(settings, "^MM"+code)
	}
	if p.Defaults.Copies != nil && *p.Defaults.Copies > 0 {
		settings = append(settings, fmt.Sprintf("^PQ%d", *p.Defaults.Copies))
	}
	if p.Defaults.Rotation != nil {
		code, ok := rotationCode(*p.Defaults.Rotation)
		if !ok {
			return nil, fmt.Errorf("defaults.rotation must be 0, 90, 180, or 270")
		}
		settings = append(settings, "^FW"+code)
	}
	return settings, nil
}

func printModeCode(mode string) (string, bool) {
	code, ok := map[string]string{
		"tear_off":    "T",
		"peel_off":    "P",
		"rewind":      "R",
		"cutter":      "C",
		"delayed_cut": "D",
		"applicator":  "A",
	}[strings.ToLower(strings.TrimSpace(mode))]
	return code, ok
}

func rotationCode(rotation int) (string, bool) {
	code, ok := map[int]string{0: "N", 90: "R", 180: "I", 270: "B"}[rotation]
	return code, ok
}

func dialTimeout(p Printer) time.Duration {
	ms := p.Connection.TimeoutMS
	if ms <= 0 {
		ms = 3000
	}
	d := time.Duration(ms) * time.Millisecond
	if d < 100*time.Millisecond {
		return 100 * time.Millisecond
	}
	return d
}

func validateConnection(p Printer) error {
	if p.Connection.Protocol != "raw9100" {
		return fmt.Errorf("unsupported protocol: %s", p.Connection.Protocol)
	}
	if strings.TrimSpace(p.Connection.Host) == "" {
		return fmt.Errorf("printer connection.host is required")
	}
	if p.Connection.Port <= 0 {
		return fmt.Errorf("printer connection.port must be > 0")
	}
	return nil
}

// SendRawZPL opens a raw9100 TCP connection, writes zpl, and closes it,
// returning the number of bytes sent. ctx bounds the whole round trip in
// addition to the printer's own configured timeout.
func SendRawZPL(ctx context.Context, p Printer, zpl string) (int, error) {
	if err := validateConnection(p); err != nil {
		return 0, err
	}
	timeout := dialTimeout(p)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(p.Connection.Host, fmt.Sprintf("%d", p.Connection.Port))
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)

	payload := []byte(zpl)
	n, err := conn.Write(payload)
	if err != nil {
		return n, err
	}
	return n, nil
}

// QueryRawCommand sends a single-line host-status command over raw9100 and
// returns whatever the printer writes back before it stops sending or ctx
// expires.
func QueryRawCommand(ctx context.Context, p Printer, command string) (string, error) {
	if err := validateConnection(p); err != nil {
		return "", err
	}
	timeout := dialTimeout(p)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(p.Connection.Host, fmt.Sprintf("%d", p.Connection.Port))
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte(strings.TrimSpace(command) + "\n")); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			if err == io.EOF || isTimeout(err) {
				break
			}
			return buf.String(), err
		}
	}
	return buf.String(), nil
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
