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

package aws

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/hashicorp/go-multierror"

	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

const (
	sshPort int32 = 22
	maxPort int32 = 65535
)

// PublicAddresses lists the configured network load balancers.
func (p *Provider) PublicAddresses(ctx context.Context) ([]locator.PublicAddress, error) {
	arns := p.spec.PortForward.LoadBalancerArns
	if len(arns) == 0 {
		return nil, nil
	}

	out, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
		return p.elbv2.DescribeLoadBalancers(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{
			LoadBalancerArns: arns,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing load balancers: %w", err)
	}

	addrs := make([]locator.PublicAddress, 0, len(out.LoadBalancers))
	for _, lb := range out.LoadBalancers {
		addrs = append(addrs, locator.PublicAddress{
			ID:      aws.ToString(lb.LoadBalancerArn),
			Address: aws.ToString(lb.DNSName),
		})
	}
	return addrs, nil
}

// PortForwards lists the listeners of every configured load balancer as
// forwarding rules.
func (p *Provider) PortForwards(ctx context.Context) ([]locator.PortForwardRule, error) {
	var rules []locator.PortForwardRule
	for _, lbArn := range p.spec.PortForward.LoadBalancerArns {
		lbRules, err := p.listenerRules(ctx, lbArn)
		if err != nil {
			return nil, err
		}
		rules = append(rules, lbRules...)
	}
	return rules, nil
}

func (p *Provider) listenerRules(ctx context.Context, lbArn string) ([]locator.PortForwardRule, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.DescribeListenersOutput, error) {
		return p.elbv2.DescribeListeners(ctx, &elasticloadbalancingv2.DescribeListenersInput{
			LoadBalancerArn: aws.String(lbArn),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing listeners of %s: %w", lbArn, err)
	}

	var rules []locator.PortForwardRule
	for _, l := range out.Listeners {
		rule := locator.PortForwardRule{
			ID:         aws.ToString(l.ListenerArn),
			AddressID:  lbArn,
			PublicPort: aws.ToInt32(l.Port),
			Protocol:   string(l.Protocol),
		}
		if tgArn := forwardTarget(l.DefaultActions); tgArn != "" {
			rule.InstanceID, rule.PrivatePort, err = p.target(ctx, tgArn)
			if err != nil {
				return nil, err
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func forwardTarget(actions []elbv2types.Action) string {
	for _, a := range actions {
		if a.Type == elbv2types.ActionTypeEnumForward && a.TargetGroupArn != nil {
			return aws.ToString(a.TargetGroupArn)
		}
	}
	return ""
}

// target returns the first instance registered in a target group and the
// port traffic is forwarded to.
func (p *Provider) target(ctx context.Context, tgArn string) (string, int32, error) {
	tgs, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error) {
		return p.elbv2.DescribeTargetGroups(ctx, &elasticloadbalancingv2.DescribeTargetGroupsInput{
			TargetGroupArns: []string{tgArn},
		})
	})
	if err != nil {
		return "", 0, fmt.Errorf("error describing target group %s: %w", tgArn, err)
	}
	var port int32
	if len(tgs.TargetGroups) > 0 {
		port = aws.ToInt32(tgs.TargetGroups[0].Port)
	}

	health, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error) {
		return p.elbv2.DescribeTargetHealth(ctx, &elasticloadbalancingv2.DescribeTargetHealthInput{
			TargetGroupArn: aws.String(tgArn),
		})
	})
	if err != nil {
		return "", 0, fmt.Errorf("error describing targets of %s: %w", tgArn, err)
	}
	for _, d := range health.TargetHealthDescriptions {
		if d.Target == nil {
			continue
		}
		if d.Target.Port != nil {
			port = aws.ToInt32(d.Target.Port)
		}
		return aws.ToString(d.Target.Id), port, nil
	}
	return "", port, nil
}

// CreatePortForward forwards req.PublicPort on a load balancer to
// req.PrivatePort on an instance.
func (p *Provider) CreatePortForward(ctx context.Context, req provider.PortForwardRequest) (*locator.PortForwardRule, error) {
	if err := validPort(req.PublicPort); err != nil {
		return nil, err
	}
	if err := validPort(req.PrivatePort); err != nil {
		return nil, err
	}

	if _, err := p.findInstance(ctx, req.InstanceID); err != nil {
		return nil, err
	}
	addrs, err := p.PublicAddresses(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := locator.Find(addrs, req.AddressID)
	if err != nil {
		return nil, err
	}
	rules, err := p.PortForwards(ctx)
	if err != nil {
		return nil, err
	}
	if _, taken := locator.FindFunc(rules, samePublicPort(addr.ID, req.PublicPort)); taken {
		return nil, fmt.Errorf("%w: %d on %s", provider.ErrPortInUse, req.PublicPort, addr.Address)
	}

	return p.createRule(ctx, req)
}

// EnableSSH forwards publicPort to port 22 of the instance on every public
// address that does not already do so.
func (p *Provider) EnableSSH(ctx context.Context, instanceID string, publicPort int32) ([]provider.SSHResult, error) {
	if err := validPort(publicPort); err != nil {
		return nil, err
	}
	if _, err := p.findInstance(ctx, instanceID); err != nil {
		return nil, err
	}
	addrs, err := p.PublicAddresses(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := p.PortForwards(ctx)
	if err != nil {
		return nil, err
	}

	var results []provider.SSHResult
	for _, addr := range addrs {
		onAddress := locator.Filter(rules, samePublicPort(addr.ID, publicPort))
		if existing, ok := locator.FindFunc(onAddress, func(r locator.PortForwardRule) bool {
			return r.InstanceID == instanceID
		}); ok {
			results = append(results, provider.SSHResult{Address: addr, Rule: existing, Existing: true})
			continue
		}
		if len(onAddress) > 0 {
			return results, fmt.Errorf("%w: %d on %s", provider.ErrPortInUse, publicPort, addr.Address)
		}

		rule, err := p.createRule(ctx, provider.PortForwardRequest{
			InstanceID:  instanceID,
			AddressID:   addr.ID,
			PublicPort:  publicPort,
			PrivatePort: sshPort,
		})
		if err != nil {
			return results, err
		}
		results = append(results, provider.SSHResult{Address: addr, Rule: *rule})
	}
	return results, nil
}

func (p *Provider) createRule(ctx context.Context, req provider.PortForwardRequest) (*locator.PortForwardRule, error) {
	tg, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.CreateTargetGroupOutput, error) {
		return p.elbv2.CreateTargetGroup(ctx, &elasticloadbalancingv2.CreateTargetGroupInput{
			Name:       aws.String(targetGroupName(req.InstanceID, req.AddressID, req.PublicPort)),
			Protocol:   elbv2types.ProtocolEnumTcp,
			Port:       aws.Int32(req.PrivatePort),
			VpcId:      aws.String(p.spec.PortForward.VpcID),
			TargetType: elbv2types.TargetTypeEnumInstance,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error creating target group: %w", err)
	}
	if len(tg.TargetGroups) == 0 {
		return nil, fmt.Errorf("target group creation returned no target groups")
	}
	tgArn := aws.ToString(tg.TargetGroups[0].TargetGroupArn)

	if _, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.RegisterTargetsOutput, error) {
		return p.elbv2.RegisterTargets(ctx, &elasticloadbalancingv2.RegisterTargetsInput{
			TargetGroupArn: aws.String(tgArn),
			Targets: []elbv2types.TargetDescription{
				{Id: aws.String(req.InstanceID), Port: aws.Int32(req.PrivatePort)},
			},
		})
	}); err != nil {
		return nil, p.dropTargetGroup(ctx, tgArn, fmt.Errorf("error registering %s: %w", req.InstanceID, err))
	}

	listener, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.CreateListenerOutput, error) {
		return p.elbv2.CreateListener(ctx, &elasticloadbalancingv2.CreateListenerInput{
			LoadBalancerArn: aws.String(req.AddressID),
			Protocol:        elbv2types.ProtocolEnumTcp,
			Port:            aws.Int32(req.PublicPort),
			DefaultActions: []elbv2types.Action{
				{Type: elbv2types.ActionTypeEnumForward, TargetGroupArn: aws.String(tgArn)},
			},
		})
	})
	if err != nil {
		return nil, p.dropTargetGroup(ctx, tgArn, fmt.Errorf("error creating listener: %w", err))
	}
	if len(listener.Listeners) == 0 {
		return nil, fmt.Errorf("listener creation returned no listeners")
	}

	return &locator.PortForwardRule{
		ID:          aws.ToString(listener.Listeners[0].ListenerArn),
		AddressID:   req.AddressID,
		InstanceID:  req.InstanceID,
		PublicPort:  req.PublicPort,
		PrivatePort: req.PrivatePort,
		Protocol:    string(elbv2types.ProtocolEnumTcp),
	}, nil
}

// dropTargetGroup removes a target group left without a listener and
// returns cause, together with any error from the removal.
func (p *Provider) dropTargetGroup(ctx context.Context, arn string, cause error) error {
	if _, err := call(ctx, p, func(ctx context.Context) (*elasticloadbalancingv2.DeleteTargetGroupOutput, error) {
		return p.elbv2.DeleteTargetGroup(ctx, &elasticloadbalancingv2.DeleteTargetGroupInput{
			TargetGroupArn: aws.String(arn),
		})
	}); err != nil {
		return multierror.Append(cause, fmt.Errorf("error deleting target group %s: %w", arn, err))
	}
	return cause
}

func samePublicPort(addressID string, port int32) func(locator.PortForwardRule) bool {
	return func(r locator.PortForwardRule) bool {
		return r.AddressID == addressID && r.PublicPort == port
	}
}

func validPort(port int32) error {
	if port < 1 || port > maxPort {
		return fmt.Errorf("invalid port %d", port)
	}
	return nil
}

// targetGroupName derives a valid target group name unique per instance,
// load balancer and public port.
func targetGroupName(instanceID, addressID string, publicPort int32) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(instanceID + "/" + addressID))
	return fmt.Sprintf("fw-%08x-%d", h.Sum32(), publicPort)
}
