package attestor

import (
	"context"
	"crypto"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

type jwsAttestor struct {
	key   jwk.Key
	alg   jwa.SignatureAlgorithm
	keyID string
}

// New creates an attestor that signs statements as compact JWS with
// the given private key. The key may be PEM (PKCS#8, EC, RSA) or JWK.
func New(keyData []byte) (interfaces.Attestor, error) {
	key, err := jwk.ParseKey(keyData, jwk.WithPEM(true))
	if err != nil {
		// Not PEM; retry as raw JWK
		key, err = jwk.ParseKey(keyData)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse attestation signing key")
		}
	}

	alg, err := signatureAlgorithm(key)
	if err != nil {
		return nil, err
	}

	keyID := key.KeyID()
	if keyID == "" {
		if thumb, err := key.Thumbprint(crypto.SHA256); err == nil {
			keyID = hex.EncodeToString(thumb)
		}
	}

	return &jwsAttestor{
		key:   key,
		alg:   alg,
		keyID: keyID,
	}, nil
}

// Attest signs the statement and returns the sealed record
func (a *jwsAttestor) Attest(ctx context.Context, statement *model.Statement) (*model.AttestationRecord, error) {
	payload, err := json.Marshal(statement)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to serialize attestation statement")
	}

	envelope, err := jws.Sign(payload, jws.WithKey(a.alg, a.key))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign attestation statement")
	}

	return &model.AttestationRecord{
		Statement: *statement,
		Envelope:  envelope,
		KeyID:     a.keyID,
		SignedAt:  time.Now().UTC(),
	}, nil
}

// signatureAlgorithm picks the JWS algorithm from the key type, unless
// the key itself declares one.
func signatureAlgorithm(key jwk.Key) (jwa.SignatureAlgorithm, error) {
	if alg, ok := key.Algorithm().(jwa.SignatureAlgorithm); ok && alg != "" {
		return alg, nil
	}

	switch key.KeyType() {
	case jwa.EC:
		return jwa.ES256, nil
	case jwa.OKP:
		return jwa.EdDSA, nil
	case jwa.RSA:
		return jwa.RS256, nil
	default:
		return "", goerr.New("unsupported attestation key type",
			goerr.V("key_type", key.KeyType()),
		)
	}
}
