// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/ids"

	"github.com/luxfi/payvm/utils/formatting"
	"github.com/luxfi/payvm/vote"
)

// Endpoint is the HTTP path the RPC service is mounted on.
const Endpoint = "/ext/payvm"

// Client is a typed JSON-RPC client for a validator endpoint.
type Client struct {
	uri        string
	httpClient *http.Client
}

// NewClient returns a client for the validator at the given base URI,
// e.g. http://127.0.0.1:9650.
func NewClient(uri string) *Client {
	return &Client{
		uri:        uri + Endpoint,
		httpClient: http.DefaultClient,
	}
}

func (c *Client) call(ctx context.Context, method string, args any, reply any) error {
	body, err := json2.EncodeClientRequest(Name+"."+method, args)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return json2.DecodeClientResponse(resp.Body, reply)
}

// SendRawTransaction submits signed transaction bytes and returns the
// validator's vote.
func (c *Client) SendRawTransaction(ctx context.Context, txBytes []byte) (*vote.Vote, error) {
	encoded, err := formatting.Encode(formatting.Hex, txBytes)
	if err != nil {
		return nil, err
	}
	reply := SendRawTransactionReply{}
	if err := c.call(ctx, "sendRawTransaction", &SendRawTransactionArgs{Tx: encoded}, &reply); err != nil {
		return nil, err
	}
	return reply.Vote.Vote()
}

// SubmitVote propagates a single vote to the peer.
func (c *Client) SubmitVote(ctx context.Context, v *vote.Vote) error {
	jv, err := NewJSONVote(v)
	if err != nil {
		return err
	}
	return c.call(ctx, "submitVote", &SubmitVoteArgs{Vote: jv}, &SubmitVoteReply{})
}

// SubmitVotes propagates a batch of votes, returning how many the peer
// accepted.
func (c *Client) SubmitVotes(ctx context.Context, votes []*vote.Vote) (int, error) {
	args := SubmitVotesArgs{Votes: make([]JSONVote, 0, len(votes))}
	for _, v := range votes {
		jv, err := NewJSONVote(v)
		if err != nil {
			return 0, err
		}
		args.Votes = append(args.Votes, jv)
	}
	reply := SubmitVotesReply{}
	if err := c.call(ctx, "submitVotes", &args, &reply); err != nil {
		return 0, err
	}
	return reply.Accepted, nil
}

// GetRecoveryInfo fetches the recovery snapshot for an address.
func (c *Client) GetRecoveryInfo(ctx context.Context, addr ids.ShortID) (*GetRecoveryInfoReply, error) {
	reply := GetRecoveryInfoReply{}
	if err := c.call(ctx, "getRecoveryInfo", &GetRecoveryInfoArgs{Address: addr.String()}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetAccount fetches the validator's view of an account.
func (c *Client) GetAccount(ctx context.Context, addr ids.ShortID) (*GetAccountReply, error) {
	reply := GetAccountReply{}
	if err := c.call(ctx, "getAccount", &GetAccountArgs{Address: addr.String()}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Health checks the validator's liveness.
func (c *Client) Health(ctx context.Context) (*HealthReply, error) {
	reply := HealthReply{}
	if err := c.call(ctx, "health", &HealthArgs{}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
