// Package oracleserver serves the oracle router over gRPC.
package oracleserver

import (
	"context"
	"encoding/json"
	"errors"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/infrastructure/grpc/oraclerpc"
	"rateoracle-service/internal/msg"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var _ oraclerpc.OracleServer = (*Server)(nil)

type Server struct {
	router *application.Router
	blocks application.BlockSource
	log    *zap.Logger
}

func NewServer(router *application.Router, blocks application.BlockSource, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{router: router, blocks: blocks, log: log}
}

func (s *Server) Execute(ctx context.Context, m *msg.ExecuteMsg) (json.RawMessage, error) {
	var raw string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(oraclerpc.SenderKey); len(v) > 0 {
			raw = v[0]
		}
	}
	sender, err := domain.ValidateIdentity(raw)
	if err != nil {
		s.log.Warn("grpc_execute.missing_sender")
		return nil, status.Error(codes.PermissionDenied, "missing or invalid "+oraclerpc.SenderKey)
	}
	resp, err := s.router.Execute(ctx, s.blocks.Next(), sender, *m)
	if err != nil {
		s.log.Warn("grpc_execute.failed", zap.String("sender", sender.String()), zap.Error(err))
		return nil, toStatus(err)
	}
	return encode(resp)
}

func (s *Server) Query(ctx context.Context, m *msg.QueryMsg) (json.RawMessage, error) {
	resp, err := s.router.Query(ctx, *m)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

func encode(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return b, nil
}

func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		code = codes.PermissionDenied
	case errors.Is(err, domain.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrMalformedRate),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrUnknownMessage):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrNotInstantiated),
		errors.Is(err, domain.ErrAlreadyInstantiated),
		errors.Is(err, domain.ErrInvalidVersionTransition),
		errors.Is(err, application.ErrConflict):
		code = codes.FailedPrecondition
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
