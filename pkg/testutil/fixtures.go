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

package testutil

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
)

// Values used by ValidSession.
const (
	ControlHostname   = "puppet.internal"
	ControlInstanceID = "puppet-0"
	BaseTemplate      = "http://example/base.cloudinit"
	AgentTemplate     = "http://example/agent.cloudinit"
	LoadBalancerArn   = "arn:aws:elasticloadbalancing:eu-west-1:123456789012:loadbalancer/net/forward/abc"
)

// ValidSession returns a minimal valid session for testing purposes.
func ValidSession() *v1alpha1.Session {
	return &v1alpha1.Session{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.Version,
			Kind:       v1alpha1.Kind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: "test-session",
		},
		Spec: v1alpha1.SessionSpec{
			Region: "eu-west-1",
			Instance: v1alpha1.InstanceDefaults{
				Type:    "t3.small",
				KeyName: "ops",
			},
			CloudInit: v1alpha1.CloudInit{
				BaseTemplate:   BaseTemplate,
				PuppetTemplate: AgentTemplate,
				Encoding:       v1alpha1.EncodingBase64,
			},
			ControlNode: v1alpha1.ControlNode{
				Hostname:   ControlHostname,
				InstanceID: ControlInstanceID,
			},
			ConfigManagement: v1alpha1.ConfigManagement{
				Command:     v1alpha1.DefaultCommand,
				KickTimeout: metav1.Duration{Duration: 5 * time.Second},
			},
		},
	}
}

// SessionWithPortForward returns ValidSession with one forwarding load
// balancer configured.
func SessionWithPortForward() *v1alpha1.Session {
	s := ValidSession()
	s.Spec.PortForward = v1alpha1.PortForward{
		LoadBalancerArns: []string{LoadBalancerArn},
		VpcID:            "vpc-1",
	}
	return s
}

// SessionYAML is ValidSession as a config file.
const SessionYAML = `apiVersion: ec2deploy.vdt.io/v1alpha1
kind: Session
metadata:
  name: test-session
spec:
  region: eu-west-1
  instance:
    type: t3.small
    keyName: ops
  cloudInit:
    baseTemplate: http://example/base.cloudinit
    puppetTemplate: http://example/agent.cloudinit
    encoding: base64
  controlNode:
    hostname: puppet.internal
    instanceId: puppet-0
  configManagement:
    command: mco
    kickTimeout: 5s
`
