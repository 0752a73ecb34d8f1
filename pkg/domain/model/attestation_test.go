package model_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

func TestNewSubject(t *testing.T) {
	blob := model.Blob{
		Name: "pkg-0.1.0-cp312-abi3-macosx_11_0_arm64.whl",
		Data: []byte("wheel bytes"),
	}

	subject := model.NewSubject("wheels-macos-aarch64", blob)

	gt.Value(t, subject.Name).Equal("wheels-macos-aarch64/pkg-0.1.0-cp312-abi3-macosx_11_0_arm64.whl")

	sum := sha256.Sum256(blob.Data)
	gt.Value(t, subject.Digest["sha256"]).Equal(hex.EncodeToString(sum[:]))
}
