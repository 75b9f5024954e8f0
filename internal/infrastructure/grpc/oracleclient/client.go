// Package oracleclient talks to a running oracle over gRPC.
package oracleclient

import (
	"context"
	"encoding/json"
	"time"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/infrastructure/grpc/oraclerpc"
	"rateoracle-service/internal/msg"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

var _ application.RatePoster = (*Client)(nil)

type Client struct {
	cli     *oraclerpc.OracleClient
	sender  string
	timeout time.Duration
}

// New dials target. Execute calls are signed as sender.
func New(ctx context.Context, target, sender string, timeout time.Duration, opts ...grpc.DialOption) (*Client, func(), error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.DialContext(ctx, target, opts...)
	if err != nil {
		return nil, nil, err
	}
	return NewFromConn(conn, sender, timeout), func() { _ = conn.Close() }, nil
}

func NewFromConn(cc grpc.ClientConnInterface, sender string, timeout time.Duration) *Client {
	return &Client{cli: oraclerpc.NewOracleClient(cc), sender: sender, timeout: timeout}
}

func (c *Client) PostRates(ctx context.Context, m msg.PostRates) (msg.PostRatesAck, error) {
	var ack msg.PostRatesAck
	err := c.Execute(ctx, msg.ExecuteMsg{PostRates: &m}, &ack)
	return ack, err
}

// Execute sends m as the configured sender and decodes the response into out.
func (c *Client) Execute(ctx context.Context, m msg.ExecuteMsg, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, oraclerpc.SenderKey, c.sender)
	raw, err := c.cli.Execute(ctx, &m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Query decodes the response of m into out.
func (c *Client) Query(ctx context.Context, m msg.QueryMsg, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	raw, err := c.cli.Query(ctx, &m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}
