package identity

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates "Sign in with Google" ID tokens and converts
// them to principals.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify checks the token signature and audience and extracts the profile
// claims. The subject claim is the stable uid.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("while validating ID token: %w", err)
	}

	principal := &Principal{
		UID:         payload.Subject,
		Email:       claimString(payload.Claims, "email"),
		DisplayName: claimString(payload.Claims, "name"),
		PhotoURL:    claimString(payload.Claims, "picture"),
	}
	if principal.UID == "" {
		return nil, fmt.Errorf("ID token has no subject")
	}
	return principal, nil
}

func claimString(claims map[string]any, key string) string {
	value, _ := claims[key].(string)
	return value
}
