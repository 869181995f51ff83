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

// Package provider defines the cloud operations the ec2deploy commands are
// built on.
package provider

import (
	"context"
	"errors"

	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/userdata"
)

var (
	// ErrNoUserData is returned by Deploy when no override is given.
	ErrNoUserData = errors.New("specify the machine userdata (at least its role)")
	// ErrNotImplemented is returned by List for unknown kinds.
	ErrNotImplemented = errors.New("not implemented")
	// ErrCleanupFailed is returned by Destroy when the instance was
	// terminated but its post-termination cleanup failed.
	ErrCleanupFailed = errors.New("cleanup after termination failed")
	// ErrKeySave is returned by CreateKeyPair when the key pair was created
	// but its key material could not be written.
	ErrKeySave = errors.New("failed to save key material")
	// ErrPortInUse is returned when a public port is already forwarded on
	// an address.
	ErrPortInUse = errors.New("public port already forwarded")
)

// Provider is the set of operations the commands run against a cloud.
type Provider interface {
	// Name returns a friendly name for this Provider
	Name() string

	// Instances
	Instances(ctx context.Context) ([]locator.Instance, error)
	Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error)
	// UserData returns the payload Deploy would send, without side effects.
	UserData(req DeployRequest) (string, error)
	// ResolveImage turns an AMI id, SSM parameter path or OS alias into an
	// AMI id.
	ResolveImage(ctx context.Context, ref string) (string, error)
	Destroy(ctx context.Context, id string) error
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Reboot(ctx context.Context, id string) error

	// Key pairs
	CreateKeyPair(ctx context.Context, name, dir string) (*KeyPairFiles, error)
	DeleteKeyPair(ctx context.Context, name string) error
	KeyPairs(ctx context.Context) ([]locator.KeyPair, error)

	// Addresses and port forwarding
	Addresses(ctx context.Context) ([]locator.ElasticAddress, error)
	RequestAddress(ctx context.Context) (*locator.ElasticAddress, error)
	ReleaseAddress(ctx context.Context, publicIP string) error
	PublicAddresses(ctx context.Context) ([]locator.PublicAddress, error)
	PortForwards(ctx context.Context) ([]locator.PortForwardRule, error)
	CreatePortForward(ctx context.Context, req PortForwardRequest) (*locator.PortForwardRule, error)
	EnableSSH(ctx context.Context, instanceID string, publicPort int32) ([]SSHResult, error)

	// Listings
	List(ctx context.Context, kind string) (*Listing, error)

	// Configuration management
	Kick(ctx context.Context, req KickRequest) ([]byte, error)
	Mco(ctx context.Context, args ...string) ([]byte, error)
}

// DeployRequest describes one instance to launch.
type DeployRequest struct {
	// Image is an AMI id, an SSM parameter path or an OS alias.
	Image       string
	KeyName     string
	DisplayName string
	// Base selects the base template and skips certificate registration.
	Base      bool
	Overrides []userdata.Override

	// Optional, default to the session instance settings.
	InstanceType     string
	SubnetID         string
	SecurityGroupIDs []string
}

// DeployResult reports a launched instance.
type DeployResult struct {
	Instance locator.Instance
	ImageID  string
	// UserData is the unencoded user data document.
	UserData string
}

// KeyPairFiles is a created key pair and where its key material was saved.
type KeyPairFiles struct {
	locator.KeyPair
	PrivateKeyPath string
	PublicKeyPath  string
}

// PortForwardRequest asks for PublicPort on AddressID to reach
// PrivatePort on InstanceID.
type PortForwardRequest struct {
	InstanceID  string
	AddressID   string
	PublicPort  int32
	PrivatePort int32
}

// SSHResult reports what EnableSSH did on one public address.
type SSHResult struct {
	Address locator.PublicAddress
	Rule    locator.PortForwardRule
	// Existing is true when the rule was already present.
	Existing bool
}

// KickRequest selects the nodes a puppet run is triggered on. Role takes
// precedence over InstanceID.
type KickRequest struct {
	InstanceID string
	Role       string
}

// Listing is a generic table of resources.
type Listing struct {
	Kind    string
	Columns []string
	Rows    [][]string
}
