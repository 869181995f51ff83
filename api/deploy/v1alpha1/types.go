/*
 * Copyright (c) 2024, NVIDIA CORPORATION.  All rights reserved.
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

package v1alpha1

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// Version is the API version of the session configuration
	Version = "ec2deploy.vdt.io/v1alpha1"
	// Kind is the only object kind this API defines
	Kind = "Session"
)

// Encoding selects how the cloud-init payload is transported to EC2.
type Encoding string

const (
	// EncodingNone sends the user data document verbatim
	EncodingNone Encoding = "none"
	// EncodingBase64 sends the base64 encoded user data document
	EncodingBase64 Encoding = "base64"
)

// Session is the configuration snapshot loaded once when ec2deploy starts.
// It is never mutated after Load returns.
type Session struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SessionSpec `json:"spec"`
}

// SessionSpec holds every setting a command may read.
type SessionSpec struct {
	// Region is the AWS region all commands operate in.
	Region string `json:"region"`
	// +optional
	Zone string `json:"zone,omitempty"`

	// +optional
	Auth Auth `json:"auth"`

	Instance InstanceDefaults `json:"instance"`

	CloudInit CloudInit `json:"cloudInit"`

	ControlNode ControlNode `json:"controlNode"`

	// +optional
	PortForward PortForward `json:"portForward"`

	// +optional
	ConfigManagement ConfigManagement `json:"configManagement"`

	// +optional
	Certificates Certificates `json:"certificates"`
}

// Auth carries static credentials. When empty, the default AWS credential
// chain is used.
type Auth struct {
	// +optional
	AccessKeyID string `json:"accessKeyId,omitempty"`
	// +optional
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	// +optional
	Profile string `json:"profile,omitempty"`
}

// InstanceDefaults are applied to every deploy.
type InstanceDefaults struct {
	Type string `json:"type"`
	// Architecture selects the image variant when deploy is given an OS
	// alias. Defaults to x86_64.
	// +optional
	Architecture string `json:"architecture,omitempty"`
	// +optional
	KeyName string `json:"keyName,omitempty"`
	// +optional
	SubnetID string `json:"subnetId,omitempty"`
	// +optional
	SecurityGroupIDs []string `json:"securityGroupIds,omitempty"`
}

// CloudInit names the two bootstrap templates a deploy can include.
type CloudInit struct {
	// BaseTemplate is included for base installs (no puppet agent).
	BaseTemplate string `json:"baseTemplate"`
	// PuppetTemplate is included for every other deploy.
	PuppetTemplate string `json:"puppetTemplate"`
	// +kubebuilder:validation:Enum=none;base64
	// +kubebuilder:default=base64
	Encoding Encoding `json:"encoding,omitempty"`
}

// ControlNode identifies the puppetmaster.
type ControlNode struct {
	// Hostname is written into every user data document.
	Hostname string `json:"hostname"`
	// InstanceID is protected from destructive commands.
	// +optional
	InstanceID string `json:"instanceId,omitempty"`
}

// PortForward lists the network load balancers whose listeners act as
// port forwarding rules.
type PortForward struct {
	// +optional
	LoadBalancerArns []string `json:"loadBalancerArns,omitempty"`
	// VpcID is required to create target groups.
	// +optional
	VpcID string `json:"vpcId,omitempty"`
}

// ConfigManagement configures the mcollective integration.
type ConfigManagement struct {
	// +kubebuilder:default=mco
	Command string `json:"command,omitempty"`
	// +kubebuilder:default="30s"
	KickTimeout metav1.Duration `json:"kickTimeout,omitempty"`
	// NodeCleanCommand is run with the node name appended after a destroy.
	// +optional
	NodeCleanCommand []string `json:"nodeCleanCommand,omitempty"`
}

// Certificates configures pending certificate registration.
type Certificates struct {
	// PendingFile receives the ids of freshly deployed puppet agents.
	// +optional
	PendingFile string `json:"pendingFile,omitempty"`
}

const (
	// DefaultKickTimeout bounds every mcollective invocation
	DefaultKickTimeout = 30 * time.Second
	// DefaultCommand is the mcollective client binary
	DefaultCommand = "mco"
)

// Timeout returns the configured kick timeout or the default.
func (c ConfigManagement) Timeout() time.Duration {
	if c.KickTimeout.Duration <= 0 {
		return DefaultKickTimeout
	}
	return c.KickTimeout.Duration
}

// Binary returns the configured mcollective binary or the default.
func (c ConfigManagement) Binary() string {
	if c.Command == "" {
		return DefaultCommand
	}
	return c.Command
}

// Template returns the cloud-init template for the install flavour.
func (c CloudInit) Template(base bool) string {
	if base {
		return c.BaseTemplate
	}
	return c.PuppetTemplate
}
