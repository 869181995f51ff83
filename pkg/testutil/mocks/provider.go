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

// Package mocks provides hand written test doubles for the provider and
// its collaborators.
package mocks

import (
	"context"
	"sync"

	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

// Provider is a provider.Provider whose behaviour is set per test through
// Func fields. Every call is recorded in Calls; unset Func fields return
// zero values.
type Provider struct {
	mu    sync.Mutex
	Calls []string

	InstancesFunc         func(ctx context.Context) ([]locator.Instance, error)
	DeployFunc            func(ctx context.Context, req provider.DeployRequest) (*provider.DeployResult, error)
	UserDataFunc          func(req provider.DeployRequest) (string, error)
	ResolveImageFunc      func(ctx context.Context, ref string) (string, error)
	DestroyFunc           func(ctx context.Context, id string) error
	StartFunc             func(ctx context.Context, id string) error
	StopFunc              func(ctx context.Context, id string) error
	RebootFunc            func(ctx context.Context, id string) error
	CreateKeyPairFunc     func(ctx context.Context, name, dir string) (*provider.KeyPairFiles, error)
	DeleteKeyPairFunc     func(ctx context.Context, name string) error
	KeyPairsFunc          func(ctx context.Context) ([]locator.KeyPair, error)
	AddressesFunc         func(ctx context.Context) ([]locator.ElasticAddress, error)
	RequestAddressFunc    func(ctx context.Context) (*locator.ElasticAddress, error)
	ReleaseAddressFunc    func(ctx context.Context, publicIP string) error
	PublicAddressesFunc   func(ctx context.Context) ([]locator.PublicAddress, error)
	PortForwardsFunc      func(ctx context.Context) ([]locator.PortForwardRule, error)
	CreatePortForwardFunc func(ctx context.Context, req provider.PortForwardRequest) (*locator.PortForwardRule, error)
	EnableSSHFunc         func(ctx context.Context, instanceID string, publicPort int32) ([]provider.SSHResult, error)
	ListFunc              func(ctx context.Context, kind string) (*provider.Listing, error)
	KickFunc              func(ctx context.Context, req provider.KickRequest) ([]byte, error)
	McoFunc               func(ctx context.Context, args ...string) ([]byte, error)
}

var _ provider.Provider = (*Provider)(nil)

func (m *Provider) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, op)
}

// Recorded returns a copy of the recorded calls.
func (m *Provider) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

func (m *Provider) Name() string { return "mock" }

func (m *Provider) Instances(ctx context.Context) ([]locator.Instance, error) {
	m.record("Instances")
	if m.InstancesFunc != nil {
		return m.InstancesFunc(ctx)
	}
	return nil, nil
}

func (m *Provider) Deploy(ctx context.Context, req provider.DeployRequest) (*provider.DeployResult, error) {
	m.record("Deploy")
	if m.DeployFunc != nil {
		return m.DeployFunc(ctx, req)
	}
	return &provider.DeployResult{}, nil
}

func (m *Provider) UserData(req provider.DeployRequest) (string, error) {
	m.record("UserData")
	if m.UserDataFunc != nil {
		return m.UserDataFunc(req)
	}
	return "", nil
}

func (m *Provider) ResolveImage(ctx context.Context, ref string) (string, error) {
	m.record("ResolveImage")
	if m.ResolveImageFunc != nil {
		return m.ResolveImageFunc(ctx, ref)
	}
	return ref, nil
}

func (m *Provider) Destroy(ctx context.Context, id string) error {
	m.record("Destroy")
	if m.DestroyFunc != nil {
		return m.DestroyFunc(ctx, id)
	}
	return nil
}

func (m *Provider) Start(ctx context.Context, id string) error {
	m.record("Start")
	if m.StartFunc != nil {
		return m.StartFunc(ctx, id)
	}
	return nil
}

func (m *Provider) Stop(ctx context.Context, id string) error {
	m.record("Stop")
	if m.StopFunc != nil {
		return m.StopFunc(ctx, id)
	}
	return nil
}

func (m *Provider) Reboot(ctx context.Context, id string) error {
	m.record("Reboot")
	if m.RebootFunc != nil {
		return m.RebootFunc(ctx, id)
	}
	return nil
}

func (m *Provider) CreateKeyPair(ctx context.Context, name, dir string) (*provider.KeyPairFiles, error) {
	m.record("CreateKeyPair")
	if m.CreateKeyPairFunc != nil {
		return m.CreateKeyPairFunc(ctx, name, dir)
	}
	return &provider.KeyPairFiles{KeyPair: locator.KeyPair{Name: name}}, nil
}

func (m *Provider) DeleteKeyPair(ctx context.Context, name string) error {
	m.record("DeleteKeyPair")
	if m.DeleteKeyPairFunc != nil {
		return m.DeleteKeyPairFunc(ctx, name)
	}
	return nil
}

func (m *Provider) KeyPairs(ctx context.Context) ([]locator.KeyPair, error) {
	m.record("KeyPairs")
	if m.KeyPairsFunc != nil {
		return m.KeyPairsFunc(ctx)
	}
	return nil, nil
}

func (m *Provider) Addresses(ctx context.Context) ([]locator.ElasticAddress, error) {
	m.record("Addresses")
	if m.AddressesFunc != nil {
		return m.AddressesFunc(ctx)
	}
	return nil, nil
}

func (m *Provider) RequestAddress(ctx context.Context) (*locator.ElasticAddress, error) {
	m.record("RequestAddress")
	if m.RequestAddressFunc != nil {
		return m.RequestAddressFunc(ctx)
	}
	return &locator.ElasticAddress{}, nil
}

func (m *Provider) ReleaseAddress(ctx context.Context, publicIP string) error {
	m.record("ReleaseAddress")
	if m.ReleaseAddressFunc != nil {
		return m.ReleaseAddressFunc(ctx, publicIP)
	}
	return nil
}

func (m *Provider) PublicAddresses(ctx context.Context) ([]locator.PublicAddress, error) {
	m.record("PublicAddresses")
	if m.PublicAddressesFunc != nil {
		return m.PublicAddressesFunc(ctx)
	}
	return nil, nil
}

func (m *Provider) PortForwards(ctx context.Context) ([]locator.PortForwardRule, error) {
	m.record("PortForwards")
	if m.PortForwardsFunc != nil {
		return m.PortForwardsFunc(ctx)
	}
	return nil, nil
}

func (m *Provider) CreatePortForward(ctx context.Context, req provider.PortForwardRequest) (*locator.PortForwardRule, error) {
	m.record("CreatePortForward")
	if m.CreatePortForwardFunc != nil {
		return m.CreatePortForwardFunc(ctx, req)
	}
	return &locator.PortForwardRule{}, nil
}

func (m *Provider) EnableSSH(ctx context.Context, instanceID string, publicPort int32) ([]provider.SSHResult, error) {
	m.record("EnableSSH")
	if m.EnableSSHFunc != nil {
		return m.EnableSSHFunc(ctx, instanceID, publicPort)
	}
	return nil, nil
}

func (m *Provider) List(ctx context.Context, kind string) (*provider.Listing, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind)
	}
	return &provider.Listing{Kind: kind}, nil
}

func (m *Provider) Kick(ctx context.Context, req provider.KickRequest) ([]byte, error) {
	m.record("Kick")
	if m.KickFunc != nil {
		return m.KickFunc(ctx, req)
	}
	return nil, nil
}

func (m *Provider) Mco(ctx context.Context, args ...string) ([]byte, error) {
	m.record("Mco")
	if m.McoFunc != nil {
		return m.McoFunc(ctx, args...)
	}
	return nil, nil
}
