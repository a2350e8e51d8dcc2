package fetcher

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeHTML はレスポンスボディを文字列に変換します。
// 正しい UTF-8 であればそのまま使用し、そうでなければ Latin-1 (ISO-8859-1) として解釈します。
// Latin-1 はすべてのバイトを1文字に対応させるため、この変換は失敗しません。
func DecodeHTML(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// ISO8859_1 のデコーダはエラーを返さない
		return string(raw)
	}
	return string(decoded)
}
