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

package configmgmt

import "fmt"

// KickArgs returns the mcollective arguments that force a single puppet run
// on the nodes matching either role or hostname. Role takes precedence.
func KickArgs(role, hostname string) ([]string, error) {
	var filter string
	switch {
	case role != "":
		filter = "role=" + role
	case hostname != "":
		filter = "hostname=" + hostname
	default:
		return nil, fmt.Errorf("kick requires a role or a hostname")
	}
	return []string{"puppetd", "runonce", "-F", filter}, nil
}
