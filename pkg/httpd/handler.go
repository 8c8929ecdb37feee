package httpd

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spoolio/spool/pkg/observability/otel"
)

// Routing mirrors the demo's contract: only the request line is examined.
const (
	statusOK         = "HTTP/1.1 200 OK"
	statusNotFound   = "HTTP/1.1 404 NOT FOUND"
	statusBadRequest = "HTTP/1.1 400 BAD REQUEST"
	statusServerErr  = "HTTP/1.1 500 INTERNAL SERVER ERROR"
)

// handle runs on a pool worker: one connection, one job.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	requestID := uuid.NewString()

	_, span := otel.StartSpan(context.Background(), "httpd.request",
		trace.WithAttributes(attribute.String("request.id", requestID)))
	defer span.End()

	line, err := readRequestLine(conn)
	if err != nil {
		s.logger.Warnf("[%s] failed to read request line: %v", requestID, err)
		s.respond(conn, statusBadRequest, nil)
		s.record("bad_request", "400", start)
		span.SetAttributes(attribute.String("http.status", "400"))
		return
	}

	route, status, page := s.route(line)
	span.SetAttributes(
		attribute.String("http.route", route),
		attribute.String("http.status", status),
	)

	var body []byte
	if page != "" {
		body, err = os.ReadFile(filepath.Join(s.config.PagesDir, page))
		if err != nil {
			s.logger.Errorf("[%s] failed to read page %s: %v", requestID, page, err)
			s.respond(conn, statusServerErr, nil)
			s.record(route, "500", start)
			return
		}
	}

	statusLine := statusOK
	if status == "404" {
		statusLine = statusNotFound
	}
	s.respond(conn, statusLine, body)
	s.record(route, status, start)

	s.logger.Infof("[%s] %q -> %s in %v", requestID, line, status, time.Since(start))
}

// route maps a raw request line to (metrics route, status code, page file).
// GET /sleep stalls before returning, the demo's slow endpoint.
func (s *Server) route(line string) (route, status, page string) {
	switch line {
	case "GET / HTTP/1.1":
		return "/", "200", "index.html"
	case "GET /sleep HTTP/1.1":
		time.Sleep(s.config.Sleep)
		return "/sleep", "200", "sleep.html"
	default:
		return "other", "404", "404.html"
	}
}

func readRequestLine(conn net.Conn) (string, error) {
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("empty request line")
	}
	return line, nil
}

func (s *Server) respond(conn net.Conn, statusLine string, body []byte) {
	response := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n%s", statusLine, len(body), body)
	if _, err := conn.Write([]byte(response)); err != nil {
		s.logger.Warnf("failed to write response: %v", err)
	}
}

func (s *Server) record(route, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordHTTPRequest(route, status, time.Since(start))
}
