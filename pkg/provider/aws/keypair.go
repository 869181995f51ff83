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
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"golang.org/x/crypto/ssh"

	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

// CreateKeyPair creates a key pair and, when dir is set, saves the private
// key to dir/name and the OpenSSH public key to dir/name.pub. A save
// failure leaves the key pair in place and returns provider.ErrKeySave.
func (p *Provider) CreateKeyPair(ctx context.Context, name, dir string) (*provider.KeyPairFiles, error) {
	if name == "" {
		return nil, fmt.Errorf("key pair name is required")
	}
	if dir != "" {
		if err := validKeyFileName(name); err != nil {
			return nil, err
		}
	}

	out, err := call(ctx, p, func(ctx context.Context) (*ec2.CreateKeyPairOutput, error) {
		return p.ec2.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{KeyName: aws.String(name)})
	})
	if err != nil {
		if hasErrorCode(err, "InvalidKeyPair.Duplicate") {
			return nil, fmt.Errorf("key pair %s already exists", name)
		}
		return nil, fmt.Errorf("error creating key pair %s: %w", name, err)
	}

	files := &provider.KeyPairFiles{
		KeyPair: locator.KeyPair{
			ID:          aws.ToString(out.KeyPairId),
			Name:        aws.ToString(out.KeyName),
			Fingerprint: aws.ToString(out.KeyFingerprint),
		},
	}
	if dir == "" {
		return files, nil
	}

	if err := saveKeyMaterial(files, dir, []byte(aws.ToString(out.KeyMaterial))); err != nil {
		return files, fmt.Errorf("%w for %s: %w", provider.ErrKeySave, name, err)
	}
	return files, nil
}

func saveKeyMaterial(files *provider.KeyPairFiles, dir string, material []byte) error {
	if err := validKeyFileName(files.Name); err != nil {
		return err
	}
	signer, err := ssh.ParsePrivateKey(material)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	privatePath := filepath.Join(dir, files.Name)
	if err := os.WriteFile(privatePath, material, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(privatePath, 0600); err != nil {
		return err
	}
	files.PrivateKeyPath = privatePath

	publicPath := privatePath + ".pub"
	if err := os.WriteFile(publicPath, ssh.MarshalAuthorizedKey(signer.PublicKey()), 0644); err != nil { //nolint:gosec
		return err
	}
	files.PublicKeyPath = publicPath
	return nil
}

// validKeyFileName rejects key names that would be saved outside the
// key directory.
func validKeyFileName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("key pair name %q cannot be used as a file name", name)
	}
	return nil
}

// DeleteKeyPair deletes the named key pair.
func (p *Provider) DeleteKeyPair(ctx context.Context, name string) error {
	keys, err := p.KeyPairs(ctx)
	if err != nil {
		return err
	}
	if _, err := locator.Find(keys, name); err != nil {
		return err
	}

	_, err = call(ctx, p, func(ctx context.Context) (*ec2.DeleteKeyPairOutput, error) {
		return p.ec2.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{KeyName: aws.String(name)})
	})
	if err != nil {
		return fmt.Errorf("error deleting key pair %s: %w", name, err)
	}
	return nil
}

// KeyPairs lists the key pairs of the region.
func (p *Provider) KeyPairs(ctx context.Context) ([]locator.KeyPair, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeKeyPairsOutput, error) {
		return p.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing key pairs: %w", err)
	}

	keys := make([]locator.KeyPair, 0, len(out.KeyPairs))
	for _, k := range out.KeyPairs {
		keys = append(keys, locator.KeyPair{
			ID:          aws.ToString(k.KeyPairId),
			Name:        aws.ToString(k.KeyName),
			Fingerprint: aws.ToString(k.KeyFingerprint),
		})
	}
	return keys, nil
}
