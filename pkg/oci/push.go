// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/xenserver/bugtool/pkg/errors"
)

// ArtifactType is the artifact type of pushed support archives.
const ArtifactType = "application/vnd.xenserver.bugtool.report.v1"

// Layer media types per archive format.
const (
	MediaTypeTar   = "application/vnd.xenserver.bugtool.report.layer.v1.tar"
	MediaTypeTarGz = "application/vnd.xenserver.bugtool.report.layer.v1.tar+gzip"
	MediaTypeZip   = "application/vnd.xenserver.bugtool.report.layer.v1.zip"
)

// PushOptions configures a push.
type PushOptions struct {
	// ArchivePath is the archive file to publish.
	ArchivePath string
	// Reference is the registry target. It must carry a tag.
	Reference *Reference
	// Version is recorded in the manifest annotations.
	Version string
	// Created sets the manifest creation time. Zero means now.
	Created time.Time
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Target overrides the remote repository, e.g. with an in-memory store.
	Target oras.Target
}

// PushResult describes a published artifact.
type PushResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// MediaType returns the layer media type for an archive file name.
func MediaType(path string) string {
	switch {
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		return MediaTypeTarGz
	case strings.HasSuffix(path, ".zip"):
		return MediaTypeZip
	default:
		return MediaTypeTar
	}
}

// Push publishes the archive as a single layer artifact.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil || opts.Reference.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required to push an archive")
	}

	refString := opts.Reference.ImageReference()
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid image reference %q", refString), err)
	}

	absPath, err := filepath.Abs(opts.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive path: %w", err)
	}

	fs, err := file.New(filepath.Dir(absPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	layer, err := fs.Add(ctx, filepath.Base(absPath), MediaType(absPath), absPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, "failed to add archive to store", err)
	}

	created := opts.Created
	if created.IsZero() {
		created = time.Now()
	}
	annotations := map[string]string{
		ociv1.AnnotationCreated: created.UTC().Format(time.RFC3339),
		ociv1.AnnotationTitle:   filepath.Base(absPath),
	}
	if opts.Version != "" {
		annotations[ociv1.AnnotationVersion] = opts.Version
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}

	tag := opts.Reference.Tag
	if err := fs.Tag(ctx, manifest, tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}

	dst := opts.Target
	if dst == nil {
		repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", opts.Reference.Registry, opts.Reference.Repository))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
		}
		repo.PlainHTTP = opts.PlainHTTP
		repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)
		dst = repo
	}

	slog.Info("pushing archive", "reference", refString, "media_type", layer.MediaType, "size", layer.Size)

	desc, err := oras.Copy(ctx, fs, tag, dst, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to push archive to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credential store unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
