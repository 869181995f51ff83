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
	"encoding/base64"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/testutil"
	"github.com/vdt-tools/ec2deploy/pkg/testutil/mocks"
	"github.com/vdt-tools/ec2deploy/pkg/userdata"
)

func ec2Instance(id, name, role string) types.Instance {
	inst := types.Instance{
		InstanceId:   aws.String(id),
		InstanceType: types.InstanceTypeT3Small,
		State:        &types.InstanceState{Name: types.InstanceStateNameRunning},
		LaunchTime:   aws.Time(time.Now().Add(-time.Hour)),
	}
	if name != "" {
		inst.Tags = append(inst.Tags, types.Tag{Key: aws.String(TagName), Value: aws.String(name)})
	}
	if role != "" {
		inst.Tags = append(inst.Tags, types.Tag{Key: aws.String(TagRole), Value: aws.String(role)})
	}
	return inst
}

func describing(instances ...types.Instance) func(context.Context, *ec2.DescribeInstancesInput, ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return func(context.Context, *ec2.DescribeInstancesInput, ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
		return &ec2.DescribeInstancesOutput{
			Reservations: []types.Reservation{{Instances: instances}},
		}, nil
	}
}

var _ = Describe("AWS Provider", func() {
	var (
		ctx      context.Context
		session  *v1alpha1.Session
		ec2Mock  *MockEC2Client
		elbMock  *MockELBv2Client
		ssmMock  *MockSSMClient
		runner   *mocks.Runner
		registry *mocks.Registry
		log      *logger.FunLogger
	)

	newProvider := func() *Provider {
		p, err := New(log, session,
			WithEC2Client(ec2Mock),
			WithELBv2Client(elbMock),
			WithSSMClient(ssmMock),
			WithRunner(runner),
			WithCertificates(registry),
			WithRetryConfig(RetryConfig{}),
		)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	BeforeEach(func() {
		ctx = context.Background()
		session = testutil.ValidSession()
		ec2Mock = NewMockEC2Client()
		elbMock = NewMockELBv2Client()
		ssmMock = &MockSSMClient{}
		runner = &mocks.Runner{}
		registry = &mocks.Registry{}
		log = logger.NewLogger()
		log.Out = GinkgoWriter
		ec2Mock.DescribeInstancesFunc = describing(
			ec2Instance(testutil.ControlInstanceID, "puppet", "puppetmaster"),
			ec2Instance("i-0worker3", "worker-3", "lvs"),
			ec2Instance("i-0noname", "", ""),
		)
	})

	Describe("New", func() {
		It("should inject the mock clients", func() {
			p := newProvider()
			Expect(p.Name()).To(Equal("aws"))
			Expect(p.ec2).To(Equal(ec2Mock))
			Expect(p.elbv2).To(Equal(elbMock))
		})

		It("should reject an unknown encoding", func() {
			session.Spec.CloudInit.Encoding = "gzip"
			_, err := New(log, session, WithEC2Client(ec2Mock), WithELBv2Client(elbMock), WithSSMClient(ssmMock))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Instances", func() {
		It("should map tags and default the name", func() {
			instances, err := newProvider().Instances(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(instances).To(HaveLen(3))
			Expect(instances[1].Name).To(Equal("worker-3"))
			Expect(instances[1].Role).To(Equal("lvs"))
			Expect(instances[1].State).To(Equal("running"))
			Expect(instances[2].Name).To(Equal(locator.DefaultName))
		})
	})

	Describe("Deploy", func() {
		var req provider.DeployRequest

		BeforeEach(func() {
			req = provider.DeployRequest{
				Image:       "ami-0123",
				DisplayName: "lvs-1",
				Overrides:   []userdata.Override{{Key: "role", Value: "lvs"}},
			}
			ec2Mock.RunInstancesFunc = func(_ context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
				return &ec2.RunInstancesOutput{Instances: []types.Instance{{
					InstanceId:   aws.String("i-0new"),
					InstanceType: in.InstanceType,
				}}}, nil
			}
		})

		It("should refuse a deploy without overrides before calling AWS", func() {
			req.Overrides = nil
			_, err := newProvider().Deploy(ctx, req)
			Expect(err).To(MatchError(provider.ErrNoUserData))
			Expect(ec2Mock.Calls).To(BeEmpty())
			Expect(ssmMock.Calls).To(BeEmpty())
		})

		It("should send the base64 user data document", func() {
			var input *ec2.RunInstancesInput
			run := ec2Mock.RunInstancesFunc
			ec2Mock.RunInstancesFunc = func(ctx context.Context, in *ec2.RunInstancesInput, opts ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
				input = in
				return run(ctx, in, opts...)
			}

			result, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			raw, err := base64.StdEncoding.DecodeString(aws.ToString(input.UserData))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal(
				"#include " + testutil.AgentTemplate + "\n" +
					"#puppetmaster=" + testutil.ControlHostname + "\n" +
					"#role=lvs\n"))
			Expect(result.UserData).To(Equal(string(raw)))
			Expect(aws.ToString(input.ClientToken)).NotTo(BeEmpty())
			Expect(aws.ToString(input.ImageId)).To(Equal("ami-0123"))
			Expect(aws.ToString(input.KeyName)).To(Equal("ops"))
			Expect(input.InstanceType).To(Equal(types.InstanceType("t3.small")))
			Expect(*input.MinCount).To(Equal(int32(1)))
			Expect(*input.MaxCount).To(Equal(int32(1)))
			Expect(result.Instance.ID).To(Equal("i-0new"))
			Expect(result.Instance.Name).To(Equal("lvs-1"))
			Expect(result.Instance.Role).To(Equal("lvs"))
		})

		It("should still send base64 when the document encoding is none", func() {
			session.Spec.CloudInit.Encoding = v1alpha1.EncodingNone
			var payload string
			ec2Mock.RunInstancesFunc = func(_ context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
				payload = aws.ToString(in.UserData)
				return &ec2.RunInstancesOutput{Instances: []types.Instance{{InstanceId: aws.String("i-0new")}}}, nil
			}

			_, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			raw, err := base64.StdEncoding.DecodeString(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(HavePrefix("#include "))
		})

		It("should tag the instance with its name and role", func() {
			var tags []types.Tag
			ec2Mock.CreateTagsFunc = func(_ context.Context, in *ec2.CreateTagsInput, _ ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error) {
				Expect(in.Resources).To(Equal([]string{"i-0new"}))
				tags = in.Tags
				return &ec2.CreateTagsOutput{}, nil
			}

			_, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(tagValue(tags, TagName)).To(Equal("lvs-1"))
			Expect(tagValue(tags, TagRole)).To(Equal("lvs"))
		})

		It("should register puppet agents for certificate signing", func() {
			_, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(registry.Added).To(Equal([]string{"i-0new"}))
		})

		It("should not register base installs", func() {
			req.Base = true
			var payload string
			ec2Mock.RunInstancesFunc = func(_ context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
				payload = aws.ToString(in.UserData)
				return &ec2.RunInstancesOutput{Instances: []types.Instance{{InstanceId: aws.String("i-0new")}}}, nil
			}

			_, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(registry.Added).To(BeEmpty())
			raw, _ := base64.StdEncoding.DecodeString(payload)
			Expect(string(raw)).To(HavePrefix("#include " + testutil.BaseTemplate + "\n"))
		})

		It("should succeed when certificate registration fails", func() {
			registry.AddErr = errors.New("disk full")
			result, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Instance.ID).To(Equal("i-0new"))
		})

		It("should resolve image aliases through SSM", func() {
			req.Image = "ubuntu-22.04"
			ssmMock.GetParameterFunc = func(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				Expect(aws.ToString(in.Name)).To(ContainSubstring("/22.04/stable/current/amd64/"))
				return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String("ami-0jammy")}}, nil
			}

			result, err := newProvider().Deploy(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ImageID).To(Equal("ami-0jammy"))
		})

		It("should not launch when the image cannot be resolved", func() {
			req.Image = "windows-95"
			_, err := newProvider().Deploy(ctx, req)
			Expect(err).To(HaveOccurred())
			Expect(ec2Mock.MutatingCalls()).To(BeEmpty())
		})

		It("should reject malformed overrides before calling AWS", func() {
			req.Overrides = []userdata.Override{{Key: "role", Value: "lvs\n#evil=1"}}
			_, err := newProvider().Deploy(ctx, req)
			Expect(err).To(MatchError(userdata.ErrMalformedSpec))
			Expect(ec2Mock.Calls).To(BeEmpty())
		})
	})

	Describe("UserData", func() {
		It("should render without calling AWS", func() {
			session.Spec.CloudInit.Encoding = v1alpha1.EncodingNone
			doc, err := newProvider().UserData(provider.DeployRequest{
				Overrides: []userdata.Override{{Key: "role", Value: "db"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(HaveSuffix("#role=db\n"))
			Expect(ec2Mock.Calls).To(BeEmpty())
		})
	})

	Describe("Destroy", func() {
		It("should refuse the control node without any AWS call", func() {
			err := newProvider().Destroy(ctx, testutil.ControlInstanceID)
			Expect(err).To(MatchError(locator.ErrPermissionDenied))
			Expect(ec2Mock.Calls).To(BeEmpty())
		})

		It("should report unknown instances without mutating anything", func() {
			err := newProvider().Destroy(ctx, "1111")
			Expect(err).To(MatchError(locator.ErrNotFound))
			Expect(err.Error()).To(Equal("machine with id 1111 is not found"))
			Expect(ec2Mock.MutatingCalls()).To(BeEmpty())
			Expect(registry.Removed).To(BeEmpty())
		})

		It("should terminate and clean up the node", func() {
			session.Spec.ConfigManagement.NodeCleanCommand = []string{"puppet", "node", "clean"}
			err := newProvider().Destroy(ctx, "i-0worker3")
			Expect(err).NotTo(HaveOccurred())
			Expect(ec2Mock.MutatingCalls()).To(Equal([]string{"TerminateInstances"}))
			Expect(registry.Removed).To(Equal([]string{"i-0worker3"}))
			Expect(runner.Commands).To(Equal([][]string{{"puppet", "node", "clean", "worker-3"}}))
		})

		It("should skip node clean for unnamed instances", func() {
			session.Spec.ConfigManagement.NodeCleanCommand = []string{"puppet", "node", "clean"}
			Expect(newProvider().Destroy(ctx, "i-0noname")).To(Succeed())
			Expect(runner.Commands).To(BeEmpty())
		})

		It("should aggregate cleanup failures after terminating", func() {
			session.Spec.ConfigManagement.NodeCleanCommand = []string{"puppet", "node", "clean"}
			registry.RemoveErr = errors.New("read-only file system")
			runner.Err = errors.New("exit status 1")

			err := newProvider().Destroy(ctx, "i-0worker3")
			Expect(err).To(MatchError(provider.ErrCleanupFailed))
			Expect(err.Error()).To(ContainSubstring("read-only file system"))
			Expect(err.Error()).To(ContainSubstring("node clean for worker-3"))
			Expect(ec2Mock.MutatingCalls()).To(Equal([]string{"TerminateInstances"}))
		})

		It("should map a vanished instance to not found", func() {
			ec2Mock.TerminateInstancesFunc = func(context.Context, *ec2.TerminateInstancesInput, ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "InvalidInstanceID.NotFound"}
			}
			err := newProvider().Destroy(ctx, "i-0worker3")
			Expect(err).To(MatchError(locator.ErrNotFound))
			Expect(registry.Removed).To(BeEmpty())
		})
	})

	Describe("power operations", func() {
		DescribeTable("should act on known instances only",
			func(op func(*Provider, context.Context, string) error, call string) {
				p := newProvider()
				Expect(op(p, ctx, "i-0worker3")).To(Succeed())
				Expect(ec2Mock.MutatingCalls()).To(Equal([]string{call}))

				err := op(p, ctx, "i-0missing")
				Expect(err).To(MatchError(locator.ErrNotFound))
				Expect(ec2Mock.MutatingCalls()).To(Equal([]string{call}))
			},
			Entry("start", (*Provider).Start, "StartInstances"),
			Entry("stop", (*Provider).Stop, "StopInstances"),
			Entry("reboot", (*Provider).Reboot, "RebootInstances"),
		)

		It("should allow stopping the control node", func() {
			Expect(newProvider().Stop(ctx, testutil.ControlInstanceID)).To(Succeed())
		})
	})

	Describe("ReleaseAddress", func() {
		BeforeEach(func() {
			ec2Mock.DescribeAddressesFunc = func(context.Context, *ec2.DescribeAddressesInput, ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
				return &ec2.DescribeAddressesOutput{Addresses: []types.Address{
					{AllocationId: aws.String("eipalloc-1"), PublicIp: aws.String("203.0.113.10"), Domain: types.DomainTypeVpc},
				}}, nil
			}
		})

		It("should release by public IP", func() {
			var released string
			ec2Mock.ReleaseAddressFunc = func(_ context.Context, in *ec2.ReleaseAddressInput, _ ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error) {
				released = aws.ToString(in.AllocationId)
				return &ec2.ReleaseAddressOutput{}, nil
			}
			Expect(newProvider().ReleaseAddress(ctx, "203.0.113.10")).To(Succeed())
			Expect(released).To(Equal("eipalloc-1"))
		})

		It("should report unknown addresses", func() {
			err := newProvider().ReleaseAddress(ctx, "198.51.100.1")
			Expect(err).To(MatchError(locator.ErrNotFound))
			Expect(err.Error()).To(Equal("address with id 198.51.100.1 is not found"))
			Expect(ec2Mock.MutatingCalls()).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("should reject unknown kinds", func() {
			_, err := newProvider().List(ctx, "dragons")
			Expect(err).To(MatchError(provider.ErrNotImplemented))
			Expect(err.Error()).To(ContainSubstring("regions"))
		})

		It("should list OS aliases without calling AWS", func() {
			listing, err := newProvider().List(ctx, "os")
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Kind).To(Equal("os"))
			Expect(listing.Rows).NotTo(BeEmpty())
			Expect(listing.Rows[0]).To(HaveLen(len(listing.Columns)))
			Expect(ec2Mock.Calls).To(BeEmpty())
		})

		It("should list regions", func() {
			ec2Mock.DescribeRegionsFunc = func(context.Context, *ec2.DescribeRegionsInput, ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
				return &ec2.DescribeRegionsOutput{Regions: []types.Region{
					{RegionName: aws.String("eu-west-1"), Endpoint: aws.String("ec2.eu-west-1.amazonaws.com")},
				}}, nil
			}
			listing, err := newProvider().List(ctx, "regions")
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Rows).To(Equal([][]string{{"eu-west-1", "ec2.eu-west-1.amazonaws.com"}}))
		})

		It("should return no public addresses without load balancers", func() {
			listing, err := newProvider().List(ctx, "ip")
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Rows).To(BeEmpty())
			Expect(elbMock.Calls).To(BeEmpty())
		})

		It("should expose every kind", func() {
			Expect(Kinds()).To(ContainElements("regions", "zones", "eip", "images", "keypairs", "os"))
		})
	})

	Describe("Kick", func() {
		It("should kick a role", func() {
			_, err := newProvider().Kick(ctx, provider.KickRequest{Role: "lvs"})
			Expect(err).NotTo(HaveOccurred())
			Expect(runner.Commands).To(Equal([][]string{{"mco", "puppetd", "runonce", "-F", "role=lvs"}}))
			Expect(ec2Mock.Calls).To(BeEmpty())
		})

		It("should kick one instance by its name", func() {
			_, err := newProvider().Kick(ctx, provider.KickRequest{InstanceID: "i-0worker3"})
			Expect(err).NotTo(HaveOccurred())
			Expect(runner.Commands).To(Equal([][]string{{"mco", "puppetd", "runonce", "-F", "hostname=worker-3"}}))
		})

		It("should refuse unnamed instances", func() {
			_, err := newProvider().Kick(ctx, provider.KickRequest{InstanceID: "i-0noname"})
			Expect(err).To(HaveOccurred())
			Expect(runner.Commands).To(BeEmpty())
		})

		It("should report unknown instances", func() {
			_, err := newProvider().Kick(ctx, provider.KickRequest{InstanceID: "1111"})
			Expect(err).To(MatchError(locator.ErrNotFound))
		})
	})

	Describe("Mco", func() {
		It("should pass arguments through to the configured binary", func() {
			session.Spec.ConfigManagement.Command = "/opt/puppet/bin/mco"
			runner.Output = []byte("2 nodes")
			out, err := newProvider().Mco(ctx, "ping", "-W", "role=lvs")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("2 nodes"))
			Expect(runner.Commands).To(Equal([][]string{{"/opt/puppet/bin/mco", "ping", "-W", "role=lvs"}}))
		})
	})
})
