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

// Package locator resolves operator supplied identifiers against resource
// listings and guards the control node against destructive commands.
package locator

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no resource carries the requested id.
	ErrNotFound = errors.New("resource not found")
	// ErrPermissionDenied is returned when a destructive command targets
	// the control node.
	ErrPermissionDenied = errors.New("permission denied")
)

// DefaultName is used for instances without a Name tag.
const DefaultName = "N/A"

// Resource is anything a listing can return.
type Resource interface {
	ResourceID() string
}

// Instance describes one EC2 instance.
type Instance struct {
	ID         string
	Name       string
	State      string
	PublicDNS  string
	PublicIP   string
	PrivateIP  string
	Role       string
	Type       string
	LaunchTime time.Time
}

func (i Instance) ResourceID() string { return i.ID }

// PortForwardRule maps a public port on a forwarding address to a private
// port on an instance.
type PortForwardRule struct {
	ID          string
	AddressID   string
	InstanceID  string
	PublicPort  int32
	PrivatePort int32
	Protocol    string
}

func (r PortForwardRule) ResourceID() string { return r.ID }

// ElasticAddress is an allocated elastic IP.
type ElasticAddress struct {
	ID         string
	PublicIP   string
	InstanceID string
	Domain     string
}

func (a ElasticAddress) ResourceID() string { return a.ID }

// PublicAddress is an endpoint port forwards can be attached to.
type PublicAddress struct {
	ID      string
	Address string
}

func (a PublicAddress) ResourceID() string { return a.ID }

// KeyPair is an EC2 key pair, identified by name.
type KeyPair struct {
	ID          string
	Name        string
	Fingerprint string
}

func (k KeyPair) ResourceID() string { return k.Name }

// NotFoundError carries the kind and id of a failed lookup. It matches
// ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s is not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Find returns the first element of collection whose id equals id.
func Find[T Resource](collection []T, id string) (T, error) {
	for _, r := range collection {
		if r.ResourceID() == id {
			return r, nil
		}
	}
	var zero T
	return zero, &NotFoundError{Kind: kindOf(zero), ID: id}
}

// FindFunc returns the first element matching match.
func FindFunc[T any](collection []T, match func(T) bool) (T, bool) {
	for _, r := range collection {
		if match(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the elements matching match, in order.
func Filter[T any](collection []T, match func(T) bool) []T {
	var out []T
	for _, r := range collection {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func kindOf(r Resource) string {
	switch r.(type) {
	case Instance:
		return "machine"
	case PortForwardRule:
		return "port forward"
	case ElasticAddress:
		return "address"
	case PublicAddress:
		return "public address"
	case KeyPair:
		return "keypair"
	default:
		return "resource"
	}
}

// Guard protects the control node from destructive commands.
type Guard struct {
	ControlInstanceID string
}

// IsControlNode reports whether id is the configured control node. An
// unconfigured guard matches nothing.
func (g Guard) IsControlNode(id string) bool {
	return g.ControlInstanceID != "" && id == g.ControlInstanceID
}

// CheckDestructive returns ErrPermissionDenied when id is the control node.
func (g Guard) CheckDestructive(id string) error {
	if g.IsControlNode(id) {
		return fmt.Errorf("%w: %s is the control node", ErrPermissionDenied, id)
	}
	return nil
}
