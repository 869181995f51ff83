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

// Package config loads the immutable session configuration for ec2deploy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
	"github.com/vdt-tools/ec2deploy/pkg/jyaml"
)

const (
	// EnvPrefix prefixes every environment override, e.g.
	// EC2DEPLOY_SPEC_REGION=eu-west-1
	EnvPrefix = "ec2deploy"
	// DefaultName is the config file name looked up when no path is given
	DefaultName = "ec2deploy"
)

// scalar keys that may be overridden from the environment
var defaults = map[string]any{
	"apiversion":                        v1alpha1.Version,
	"kind":                              v1alpha1.Kind,
	"spec.region":                       "",
	"spec.zone":                         "",
	"spec.auth.accesskeyid":             "",
	"spec.auth.secretaccesskey":         "",
	"spec.auth.profile":                 "",
	"spec.instance.type":                "",
	"spec.instance.architecture":        "",
	"spec.instance.keyname":             "",
	"spec.instance.subnetid":            "",
	"spec.cloudinit.basetemplate":       "",
	"spec.cloudinit.puppettemplate":     "",
	"spec.cloudinit.encoding":           string(v1alpha1.EncodingBase64),
	"spec.controlnode.hostname":         "",
	"spec.controlnode.instanceid":       "",
	"spec.portforward.vpcid":            "",
	"spec.configmanagement.command":     v1alpha1.DefaultCommand,
	"spec.configmanagement.kicktimeout": v1alpha1.DefaultKickTimeout.String(),
	"spec.certificates.pendingfile":     "",
}

// Load reads the session from path, layering EC2DEPLOY_* environment
// variables on top. With an empty path the file is looked up in
// $HOME/.config/ec2deploy and the working directory; a missing file is not
// an error in that case.
func Load(path string) (*v1alpha1.Session, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultName))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	session, err := jyaml.UnmarshalStrict[v1alpha1.Session](v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if region := os.Getenv("AWS_REGION"); region != "" {
		session.Spec.Region = region
	}
	if session.Spec.CloudInit.Encoding == "" {
		session.Spec.CloudInit.Encoding = v1alpha1.EncodingBase64
	}

	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &session, nil
}
