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

// Package ami resolves the image reference given to deploy into an AMI id.
//
// A reference is one of:
//   - an AMI id ("ami-0abc..."), used as is
//   - an SSM public parameter path ("/aws/service/..."), read from SSM
//   - an OS alias ("ubuntu-24.04"), looked up in the alias registry
package ami

// Alias describes an operating system the deploy command accepts by name.
type Alias struct {
	// ID is the short identifier (e.g., "ubuntu-22.04").
	ID string

	// Name is the display name.
	Name string

	// OwnerID is the AWS account that publishes the image. Use "amazon" for
	// Amazon owned images.
	OwnerID string

	// NamePattern filters DescribeImages. %s is replaced by the
	// architecture as it appears in image names.
	NamePattern string

	// SSMPath is the public parameter holding the latest AMI id. %s is
	// replaced by the SSM architecture. Empty when not published.
	SSMPath string

	// Architectures lists the supported EC2 architectures.
	Architectures []string
}
