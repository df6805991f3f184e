package auth

import (
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("TokenService", func() {
	var svc *TokenService

	ginkgo.BeforeEach(func() {
		svc = NewTokenService(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			"15m", "7d",
		)
	})

	ginkgo.Describe("sign and verify round trip", func() {
		ginkgo.It("returns the original payload for a valid access token", func() {
			token, err := svc.SignAccessToken("user-1", "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims := svc.VerifyAccessToken(token)
			gomega.Expect(claims).ToNot(gomega.BeNil())
			gomega.Expect(claims.UserID).To(gomega.Equal("user-1"))
			gomega.Expect(claims.Email).To(gomega.Equal("admin@example.com"))
		})

		ginkgo.It("returns nil for a tampered token", func() {
			token, err := svc.SignAccessToken("user-1", "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			parts := strings.Split(token, ".")
			gomega.Expect(parts).To(gomega.HaveLen(3))
			tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

			gomega.Expect(svc.VerifyAccessToken(tampered)).To(gomega.BeNil())
		})

		ginkgo.It("returns nil for garbage input rather than failing", func() {
			gomega.Expect(svc.VerifyAccessToken("")).To(gomega.BeNil())
			gomega.Expect(svc.VerifyAccessToken("not.a.jwt")).To(gomega.BeNil())
			gomega.Expect(svc.VerifyAccessToken("definitely not a token")).To(gomega.BeNil())
		})

		ginkgo.It("returns nil once the token has expired", func() {
			expired := &TokenService{
				AccessTokenSecret:  svc.AccessTokenSecret,
				RefreshTokenSecret: svc.RefreshTokenSecret,
				AccessTokenTTL:     -time.Minute,
				RefreshTokenTTL:    -time.Minute,
			}
			token, err := expired.SignAccessToken("user-1", "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.VerifyAccessToken(token)).To(gomega.BeNil())
		})

		ginkgo.It("keeps the access and refresh token families separate", func() {
			access, err := svc.SignAccessToken("user-1", "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			refresh, err := svc.SignRefreshToken("user-1", "admin@example.com", false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.VerifyRefreshToken(access)).To(gomega.BeNil())
			gomega.Expect(svc.VerifyAccessToken(refresh)).To(gomega.BeNil())
			gomega.Expect(svc.VerifyRefreshToken(refresh)).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("RefreshTokenExpiry", func() {
		ginkgo.It("matches the configured refresh TTL", func() {
			expected := time.Now().Add(7 * 24 * time.Hour)
			gomega.Expect(svc.RefreshTokenExpiry(false)).To(gomega.BeTemporally("~", expected, time.Minute))
		})

		ginkgo.It("uses the fixed 30-day window with remember me", func() {
			expected := time.Now().Add(RememberMeTTL)
			gomega.Expect(svc.RefreshTokenExpiry(true)).To(gomega.BeTemporally("~", expected, time.Minute))
		})
	})

	ginkgo.Describe("ParseDuration", func() {
		ginkgo.It("parses each supported unit", func() {
			gomega.Expect(ParseDuration("30s")).To(gomega.Equal(30 * time.Second))
			gomega.Expect(ParseDuration("15m")).To(gomega.Equal(15 * time.Minute))
			gomega.Expect(ParseDuration("2h")).To(gomega.Equal(2 * time.Hour))
			gomega.Expect(ParseDuration("7d")).To(gomega.Equal(7 * 24 * time.Hour))
		})

		ginkgo.It("falls back to fifteen minutes on anything unparseable", func() {
			gomega.Expect(ParseDuration("")).To(gomega.Equal(DefaultTokenTTL))
			gomega.Expect(ParseDuration("7")).To(gomega.Equal(DefaultTokenTTL))
			gomega.Expect(ParseDuration("7w")).To(gomega.Equal(DefaultTokenTTL))
			gomega.Expect(ParseDuration("-5m")).To(gomega.Equal(DefaultTokenTTL))
			gomega.Expect(ParseDuration("abc")).To(gomega.Equal(DefaultTokenTTL))
		})
	})
})

var _ = ginkgo.Describe("Passwords", func() {
	ginkgo.It("verifies a password against its own hash and rejects others", func() {
		hash, err := HashPassword("Admin123!", MinBCryptCost)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(VerifyPassword(hash, "Admin123!")).To(gomega.BeTrue())
		gomega.Expect(VerifyPassword(hash, "Admin123")).To(gomega.BeFalse())
		gomega.Expect(VerifyPassword(hash, "")).To(gomega.BeFalse())
	})

	ginkgo.It("treats a malformed stored hash as a non-match", func() {
		gomega.Expect(VerifyPassword("not-a-bcrypt-hash", "Admin123!")).To(gomega.BeFalse())
		gomega.Expect(VerifyPassword("", "Admin123!")).To(gomega.BeFalse())
	})

	ginkgo.It("raises any cost below the floor", func() {
		hash, err := HashPassword("Admin123!", 4)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(hash).To(gomega.ContainSubstring("$12$"))
	})

	ginkgo.Describe("strength policy", func() {
		ginkgo.It("accepts a compliant password", func() {
			gomega.Expect(ValidatePasswordStrength("Admin123")).To(gomega.BeEmpty())
		})

		ginkgo.It("reports every violated rule", func() {
			problems := ValidatePasswordStrength("abc")
			gomega.Expect(problems).To(gomega.HaveLen(3))
		})
	})
})
