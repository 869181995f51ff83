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
	"fmt"
	"net/url"
	"strings"
)

// Validate validates the Session configuration.
func (s *Session) Validate() error {
	if s.Kind != "" && s.Kind != Kind {
		return fmt.Errorf("unsupported kind %q, expected %q", s.Kind, Kind)
	}
	return s.Spec.Validate()
}

// Validate validates the SessionSpec configuration.
func (s *SessionSpec) Validate() error {
	if s.Region == "" {
		return fmt.Errorf("region is required")
	}

	if s.Instance.Type == "" {
		return fmt.Errorf("instance type is required")
	}

	if err := s.CloudInit.Validate(); err != nil {
		return fmt.Errorf("cloudInit validation failed: %w", err)
	}

	if s.ControlNode.Hostname == "" {
		return fmt.Errorf("controlNode hostname is required")
	}

	if (s.Auth.AccessKeyID == "") != (s.Auth.SecretAccessKey == "") {
		return fmt.Errorf("auth requires both accessKeyId and secretAccessKey")
	}

	if len(s.PortForward.LoadBalancerArns) > 0 && s.PortForward.VpcID == "" {
		return fmt.Errorf("portForward vpcId is required when load balancers are configured")
	}

	if s.ConfigManagement.KickTimeout.Duration < 0 {
		return fmt.Errorf("configManagement kickTimeout cannot be negative, got %s",
			s.ConfigManagement.KickTimeout.Duration)
	}

	return nil
}

// Validate validates the CloudInit configuration.
func (c *CloudInit) Validate() error {
	switch c.Encoding {
	case "", EncodingNone, EncodingBase64:
	default:
		return fmt.Errorf("invalid encoding: %s (must be 'none' or 'base64')", c.Encoding)
	}

	if err := validateTemplateURL("baseTemplate", c.BaseTemplate); err != nil {
		return err
	}
	return validateTemplateURL("puppetTemplate", c.PuppetTemplate)
}

func validateTemplateURL(field, ref string) error {
	if ref == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.ContainsAny(ref, "\r\n") {
		return fmt.Errorf("%s must be a single line", field)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", field, ref)
	}
	return nil
}
