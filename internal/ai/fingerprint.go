package ai

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint はプロンプトに影響した全入力のハッシュを計算する。
// sha256の先頭16桁（hex）を返す。AIOutputのInputHashとして保存し、
// 同一入力での再実行を後から特定できるようにする。
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
