package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for SkillSwap.
// Tokens are minted by the identity service sharing the same secret; this server
// only parses and validates them.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the unique identifier of the authenticated user.
	ID string `json:"id"`

	// Name is the display name of the authenticated user, carried so realtime
	// sessions can be labeled without a directory lookup.
	Name string `json:"name"`
}
