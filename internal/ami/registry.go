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

package ami

import "sort"

var registry = map[string]Alias{
	"ubuntu-24.04": {
		ID:          "ubuntu-24.04",
		Name:        "Ubuntu 24.04 LTS (Noble Numbat)",
		OwnerID:     "099720109477",
		NamePattern: "ubuntu/images/hvm-ssd-gp3/ubuntu-noble-24.04-%s-server-*",
		SSMPath: "/aws/service/canonical/ubuntu/server/24.04/stable/" +
			"current/%s/hvm/ebs-gp3/ami-id",
		Architectures: []string{"x86_64", "arm64"},
	},
	"ubuntu-22.04": {
		ID:          "ubuntu-22.04",
		Name:        "Ubuntu 22.04 LTS (Jammy Jellyfish)",
		OwnerID:     "099720109477",
		NamePattern: "ubuntu/images/hvm-ssd/ubuntu-jammy-22.04-%s-server-*",
		SSMPath: "/aws/service/canonical/ubuntu/server/22.04/stable/" +
			"current/%s/hvm/ebs-gp3/ami-id",
		Architectures: []string{"x86_64", "arm64"},
	},
	"debian-12": {
		ID:            "debian-12",
		Name:          "Debian 12 (Bookworm)",
		OwnerID:       "136693071363",
		NamePattern:   "debian-12-%s-*",
		SSMPath:       "/aws/service/debian/release/12/latest/%s",
		Architectures: []string{"x86_64", "arm64"},
	},
	"amazon-linux-2023": {
		ID:          "amazon-linux-2023",
		Name:        "Amazon Linux 2023",
		OwnerID:     "amazon",
		NamePattern: "al2023-ami-*-kernel-*-%s",
		SSMPath: "/aws/service/ami-amazon-linux-latest/" +
			"al2023-ami-kernel-default-%s",
		Architectures: []string{"x86_64", "arm64"},
	},
	"rocky-9": {
		ID:            "rocky-9",
		Name:          "Rocky Linux 9",
		OwnerID:       "792107900819",
		NamePattern:   "Rocky-9-EC2-Base-*.%s-*",
		Architectures: []string{"x86_64", "arm64"},
	},
}

// Get returns the alias with the given id.
func Get(id string) (*Alias, bool) {
	a, ok := registry[id]
	if !ok {
		return nil, false
	}
	return &a, true
}

// List returns every alias id in sorted order.
func List() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every alias sorted by id.
func All() []Alias {
	aliases := make([]Alias, 0, len(registry))
	for _, id := range List() {
		aliases = append(aliases, registry[id])
	}
	return aliases
}
