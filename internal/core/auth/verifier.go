package auth

import "context"

// Verifier 校验签名/过期 + 吊销名单
type Verifier struct {
	JWT     *JWTer
	Revoker Revoker
}

func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	c, err := v.JWT.Parse(token)
	if err != nil {
		return nil, err
	}
	if v.Revoker == nil {
		return c, nil
	}
	revoked, err := v.Revoker.IsRevoked(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return c, nil
}
