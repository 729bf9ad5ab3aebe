// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// NewCodec returns a JSON-RPC 2.0 codec that matches lowerCamelCase wire
// method names to their exported Go methods.
func NewCodec() rpc.Codec {
	return lowercase{json2.NewCodec()}
}

type lowercase struct {
	*json2.Codec
}

func (lc lowercase) NewRequest(r *http.Request) rpc.CodecRequest {
	return &lowercaseRequest{lc.Codec.NewRequest(r)}
}

type lowercaseRequest struct {
	rpc.CodecRequest
}

func (cr *lowercaseRequest) Method() (string, error) {
	method, err := cr.CodecRequest.Method()
	if err != nil {
		return "", err
	}
	service, name, found := strings.Cut(method, ".")
	if !found {
		return method, nil
	}
	nameRunes := []rune(name)
	if len(nameRunes) == 0 {
		return method, nil
	}
	nameRunes[0] = unicode.ToUpper(nameRunes[0])
	return service + "." + string(nameRunes), nil
}
