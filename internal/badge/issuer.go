package badge

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"time"

	"oddeven_backend/internal/game"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidProof = errors.New("доказательство бейджа не прошло проверку")
)

// Результат проверки доказательства: какой бейдж и какая сторона
type Claims struct {
	GameID  string
	BadgeID uint64
	Side    game.Side
}

// Выпускает ровно два бейджа на игру и проверяет предъявляемые
// доказательства владения. Доказательство - JWT с подписью EdDSA
// на ключе сервиса (по схеме проверки TON Connect proof)
type Issuer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

func NewIssuer() (*Issuer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Issuer{priv: priv, pub: pub}, nil
}

// Восстанавливает эмитента из существующего seed (32 байта),
// чтобы выданные бейджи переживали перезапуск
func NewIssuerFromSeed(seed []byte) (*Issuer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("неверный размер seed ключа эмитента")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Issuer{priv: priv, pub: priv.Public().(ed25519.PublicKey)}, nil
}

// Подписывает учетные данные бейджа; сама строка и есть бейдж-токен,
// которым участник потом подтверждает ходы и вывод
func (i *Issuer) Sign(gameID string, b game.Badge) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"game_id":  gameID,
		"badge_id": b.ID,
		"side":     string(b.Side),
		"amount":   1,
		"iat":      time.Now().Unix(),
	})
	return token.SignedString(i.priv)
}

// Проверяет доказательство: подпись, принадлежность игре и количество
// (ровно один бейдж, как у исходного proof.amount() == 1)
func (i *Issuer) Verify(proof, gameID string) (*Claims, error) {
	token, err := jwt.Parse(proof, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, ErrInvalidProof
		}
		return i.pub, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidProof
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidProof
	}

	gid, _ := claims["game_id"].(string)
	if gid == "" || gid != gameID {
		return nil, ErrInvalidProof
	}

	amount, _ := claims["amount"].(float64)
	if amount != 1 {
		return nil, ErrInvalidProof
	}

	badgeID, _ := claims["badge_id"].(float64)
	if badgeID < 1 {
		return nil, ErrInvalidProof
	}

	side, _ := claims["side"].(string)

	return &Claims{
		GameID:  gid,
		BadgeID: uint64(badgeID),
		Side:    game.Side(side),
	}, nil
}
