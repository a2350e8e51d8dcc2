package cmd

import (
	"fmt"
	"net/url"
	"strings"
)

// ensureScheme は、URLのスキームが存在しない場合に https:// を補完します。
// http / https 以外のスキームはエラーになります。
func ensureScheme(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("URLが指定されていません")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		if parsedURL.Host == "" {
			return "", fmt.Errorf("URLにホストが含まれていません: %s", rawURL)
		}
		return rawURL, nil
	}

	// スキームがない場合、HTTPSをデフォルトとして付与
	return "https://" + rawURL, nil
}
