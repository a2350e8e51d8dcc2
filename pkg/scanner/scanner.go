// Package scanner は、HTML テキストを開始タグ・終了タグ・テキストのイベント列に変換します。
// トークナイズ自体は golang.org/x/net/html に任せ、呼び出し側には
// タグ名・属性マップ・生テキストだけを公開します。
package scanner

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind はイベントの種類です。
type Kind int

const (
	StartTag Kind = iota + 1
	EndTag
	Text
)

func (k Kind) String() string {
	switch k {
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case Text:
		return "Text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event は、トークナイザから得られる1つのイベントです。
type Event struct {
	Kind  Kind
	Tag   string            // 小文字化されたタグ名 (Text の場合は空)
	Attrs map[string]string // 小文字化された属性名 -> 属性値 (値はそのまま)
	Text  string            // 実体参照を展開済みのテキスト (Text の場合のみ)
	Raw   string            // 入力上の生のトークン文字列
}

// Attr は属性値を返します。属性が存在しない場合 ok は false です。
func (e Event) Attr(name string) (value string, ok bool) {
	value, ok = e.Attrs[strings.ToLower(name)]
	return value, ok
}

// Scanner は html.Tokenizer をラップし、Event を1つずつ返します。
type Scanner struct {
	z       *html.Tokenizer
	pending *Event // 自己終了タグに続けて返す終了イベント
	err     error
}

// New は io.Reader から読み込む Scanner を生成します。
func New(r io.Reader) *Scanner {
	return &Scanner{z: html.NewTokenizer(r)}
}

// NewString は文字列から読み込む Scanner を生成します。
func NewString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Next は次のイベントを返します。入力の終端またはエラーで ok は false になります。
// コメントと DOCTYPE は読み飛ばします。
// 自己終了タグ (<a href="x"/>) は開始イベントと終了イベントの2つとして返します。
func (s *Scanner) Next() (ev Event, ok bool) {
	if s.pending != nil {
		ev = *s.pending
		s.pending = nil
		return ev, true
	}

	for {
		tt := s.z.Next()
		switch tt {
		case html.ErrorToken:
			if err := s.z.Err(); err != nil && !errors.Is(err, io.EOF) {
				s.err = fmt.Errorf("HTMLのトークナイズに失敗しました: %w", err)
			}
			return Event{}, false

		case html.TextToken:
			// Raw は Text() による展開前に退避しておく
			raw := string(s.z.Raw())
			return Event{Kind: Text, Text: string(s.z.Text()), Raw: raw}, true

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := string(s.z.Raw())
			name, hasAttr := s.z.TagName()
			ev = Event{Kind: StartTag, Tag: string(name), Raw: raw}
			ev.Attrs = s.readAttrs(hasAttr)
			if tt == html.SelfClosingTagToken {
				s.pending = &Event{Kind: EndTag, Tag: ev.Tag}
			}
			return ev, true

		case html.EndTagToken:
			raw := string(s.z.Raw())
			name, _ := s.z.TagName()
			return Event{Kind: EndTag, Tag: string(name), Raw: raw}, true
		}
		// CommentToken / DoctypeToken
	}
}

// readAttrs は現在のタグの属性をマップにまとめます。同名の属性は最初のものを採用します。
func (s *Scanner) readAttrs(hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = s.z.TagAttr()
		k := string(key)
		if k == "" {
			continue
		}
		if _, dup := attrs[k]; !dup {
			attrs[k] = string(val)
		}
	}
	return attrs
}

// Err は、入力終端 (io.EOF) 以外の理由で走査が止まった場合のエラーを返します。
func (s *Scanner) Err() error {
	return s.err
}

// Each は入力を最後まで走査し、各イベントで fn を呼び出します。
func Each(r io.Reader, fn func(Event)) error {
	s := New(r)
	for {
		ev, ok := s.Next()
		if !ok {
			return s.Err()
		}
		fn(ev)
	}
}
