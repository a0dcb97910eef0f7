package connect

import (
	"context"
	"crypto/subtle"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
)

const (
	// ControlTokenHeader is the header name for the control token.
	ControlTokenHeader = "X-Control-Token"
)

var errInvalidToken = errors.New("missing or invalid control token")

// tokenInterceptor validates the control token on unary and streaming calls.
type tokenInterceptor struct {
	token string
}

// NewTokenInterceptor creates an interceptor that rejects requests whose
// X-Control-Token header does not match token. An empty token accepts every request.
func NewTokenInterceptor(token string) connect.Interceptor {
	return &tokenInterceptor{token: token}
}

func (i *tokenInterceptor) check(got string) error {
	if i.token == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(i.token)) != 1 {
		return connect.NewError(connect.CodeUnauthenticated, errInvalidToken)
	}
	return nil
}

func (i *tokenInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if err := i.check(req.Header().Get(ControlTokenHeader)); err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *tokenInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *tokenInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		if err := i.check(conn.RequestHeader().Get(ControlTokenHeader)); err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

// clientTokenInterceptor attaches the control token to outgoing calls.
type clientTokenInterceptor struct {
	token string
}

// NewClientTokenInterceptor creates an interceptor that sends token in the X-Control-Token header.
func NewClientTokenInterceptor(token string) connect.Interceptor {
	return &clientTokenInterceptor{token: token}
}

func (i *clientTokenInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if i.token != "" {
			req.Header().Set(ControlTokenHeader, i.token)
		}
		return next(ctx, req)
	}
}

func (i *clientTokenInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		if i.token != "" {
			conn.RequestHeader().Set(ControlTokenHeader, i.token)
		}
		return conn
	}
}

func (i *clientTokenInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
