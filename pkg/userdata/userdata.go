/*
 * Copyright (c) 2026, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package userdata assembles the cloud-init user data document handed to
// every new instance.
//
// The document is a list of cloud-init comment directives:
//
//	#include <template>
//	#puppetmaster=<control hostname>
//	#<key>=<value>
//
// with one override line per entry, in the order supplied.
package userdata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSpec is returned when a Spec cannot be rendered without
// corrupting the line oriented document.
var ErrMalformedSpec = errors.New("malformed user data spec")

// Encoding selects the transport form of the rendered document.
type Encoding string

const (
	// EncodingNone returns the document verbatim.
	EncodingNone Encoding = "none"
	// EncodingBase64 returns the standard base64 form of the document.
	EncodingBase64 Encoding = "base64"
)

// Override is a single key=value directive.
type Override struct {
	Key   string
	Value string
}

// String renders the override as key=value.
func (o Override) String() string {
	return o.Key + "=" + o.Value
}

// Spec describes one user data document.
type Spec struct {
	// TemplateURL is the cloud-init template to include.
	TemplateURL string
	// ControlHostname is the puppetmaster the agent reports to.
	ControlHostname string
	// Overrides are emitted after the puppetmaster line in slice order.
	Overrides []Override
}

// Builder renders Specs with a fixed encoding.
type Builder struct {
	encoding Encoding
}

// NewBuilder returns a Builder for the given encoding. An empty encoding
// selects base64.
func NewBuilder(encoding Encoding) (*Builder, error) {
	switch encoding {
	case "":
		encoding = EncodingBase64
	case EncodingNone, EncodingBase64:
	default:
		return nil, fmt.Errorf("unsupported user data encoding %q", encoding)
	}
	return &Builder{encoding: encoding}, nil
}

// Encoding returns the encoding the builder applies.
func (b *Builder) Encoding() Encoding {
	return b.encoding
}

// Build validates spec and returns the encoded document.
func (b *Builder) Build(spec Spec) (string, error) {
	if err := Validate(spec); err != nil {
		return "", err
	}
	doc := Document(spec)
	if b.encoding == EncodingBase64 {
		return base64.StdEncoding.EncodeToString([]byte(doc)), nil
	}
	return doc, nil
}

// Decode reverses the builder encoding.
func (b *Builder) Decode(payload string) (string, error) {
	if b.encoding == EncodingNone {
		return payload, nil
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode user data: %w", err)
	}
	return string(raw), nil
}

// Validate reports whether spec renders to a well formed document.
func Validate(spec Spec) error {
	if spec.TemplateURL == "" {
		return fmt.Errorf("%w: template reference is empty", ErrMalformedSpec)
	}
	if hasLineBreak(spec.TemplateURL) {
		return fmt.Errorf("%w: template reference contains a line break", ErrMalformedSpec)
	}
	if spec.ControlHostname == "" {
		return fmt.Errorf("%w: control hostname is empty", ErrMalformedSpec)
	}
	if hasLineBreak(spec.ControlHostname) {
		return fmt.Errorf("%w: control hostname contains a line break", ErrMalformedSpec)
	}
	for i, o := range spec.Overrides {
		switch {
		case o.Key == "":
			return fmt.Errorf("%w: override %d has an empty key", ErrMalformedSpec, i)
		case strings.Contains(o.Key, "="):
			return fmt.Errorf("%w: override key %q contains '='", ErrMalformedSpec, o.Key)
		case hasLineBreak(o.Key):
			return fmt.Errorf("%w: override key %q contains a line break", ErrMalformedSpec, o.Key)
		case hasLineBreak(o.Value):
			return fmt.Errorf("%w: value of override %q contains a line break", ErrMalformedSpec, o.Key)
		}
	}
	return nil
}

// Document renders the unencoded document. It does not validate spec.
func Document(spec Spec) string {
	var sb strings.Builder
	sb.WriteString("#include " + spec.TemplateURL + "\n")
	sb.WriteString("#puppetmaster=" + spec.ControlHostname + "\n")
	for _, o := range spec.Overrides {
		sb.WriteString("#" + o.String() + "\n")
	}
	return sb.String()
}

// ParseOverrides parses key=value arguments, keeping their order. The value
// is everything after the first '='.
func ParseOverrides(args []string) ([]Override, error) {
	overrides := make([]Override, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid override %q, expected key=value", arg)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid override %q, key is empty", arg)
		}
		overrides = append(overrides, Override{Key: key, Value: value})
	}
	return overrides, nil
}

// Lookup returns the value of the first override with the given key.
func Lookup(overrides []Override, key string) (string, bool) {
	for _, o := range overrides {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
