package extract

import (
	"io"
	"strings"

	"github.com/shouni/go-arch-news/pkg/scanner"
)

// ----------------------------------------------------------------------
// 定数定義
// ----------------------------------------------------------------------

const (
	// TargetTableID は抽出対象となる記事一覧テーブルの id 属性値です (大文字小文字を区別)。
	TargetTableID = "article-list"

	// titleCellIndex は、各行のうちタイトルのアンカーが入っているセルの位置 (1始まり) です。
	titleCellIndex = 2
)

// Link は、テーブルから抽出された (タイトル, href) の組です。
// Href はマークアップ上の値そのままで、相対URLの場合もあります。
type Link struct {
	Title string
	Href  string
}

// ----------------------------------------------------------------------
// 設定
// ----------------------------------------------------------------------

// Option は TableExtractor の設定を行うための関数型です。
type Option func(*TableExtractor)

// WithImplicitTbody は、<tbody> を省略したマークアップにも対応させます。
// 有効な場合、対象テーブル直下の <tr> も行として扱います。デフォルトは無効です。
func WithImplicitTbody(enabled bool) Option {
	return func(x *TableExtractor) {
		x.implicitTbody = enabled
	}
}

// ----------------------------------------------------------------------
// 状態機械
// ----------------------------------------------------------------------

// TableExtractor は、スキャナのイベント列を1つずつ受け取り、
// 対象テーブルの各行2列目にあるアンカーを抽出する状態機械です。
// 1回の解析ごとに新しいインスタンスを使用し、複数のゴルーチンで共有してはいけません。
type TableExtractor struct {
	implicitTbody bool

	inTargetTable bool
	inTbody       bool
	inRow         bool
	cellIndex     int // 現在の行で何番目の <td> か (1始まり、行ごとにリセット)

	inAnchor    bool
	pendingHref string
	pendingText []string

	links []Link
}

// NewTableExtractor は初期状態の TableExtractor を生成します。
func NewTableExtractor(opts ...Option) *TableExtractor {
	x := &TableExtractor{}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// HandleEvent は1つのイベントで状態を遷移させます。
// 対象外のタグ (span, em など) は状態を変更しません。
func (x *TableExtractor) HandleEvent(ev scanner.Event) {
	switch ev.Kind {
	case scanner.StartTag:
		x.handleStartTag(ev)
	case scanner.EndTag:
		x.handleEndTag(ev.Tag)
	case scanner.Text:
		x.handleText(ev.Text)
	}
}

func (x *TableExtractor) handleStartTag(ev scanner.Event) {
	if ev.Tag == "table" {
		if id, _ := ev.Attr("id"); id == TargetTableID {
			x.inTargetTable = true
		}
		return
	}

	if !x.inTargetTable {
		return
	}

	switch ev.Tag {
	case "tbody":
		x.inTbody = true

	case "tr":
		if x.inTbody || x.implicitTbody {
			x.inRow = true
			x.cellIndex = 0
		}

	case "td":
		if x.inRow {
			x.cellIndex++
		}

	case "a":
		if !x.inRow || x.cellIndex != titleCellIndex {
			return
		}
		// href が無い、または空のアンカーは候補にしない
		href, _ := ev.Attr("href")
		if href == "" {
			return
		}
		x.inAnchor = true
		x.pendingHref = href
		x.pendingText = x.pendingText[:0]
	}
}

func (x *TableExtractor) handleText(text string) {
	if !x.inAnchor {
		return
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		x.pendingText = append(x.pendingText, trimmed)
	}
}

func (x *TableExtractor) handleEndTag(tag string) {
	switch tag {
	case "a":
		if !x.inAnchor {
			return
		}
		title := NormalizeText(strings.Join(x.pendingText, " "))
		if title != "" && x.pendingHref != "" {
			x.links = append(x.links, Link{Title: title, Href: x.pendingHref})
		}
		x.resetAnchor()

	case "tr":
		if x.inRow {
			x.inRow = false
			x.cellIndex = 0
		}

	case "tbody":
		if x.inTbody {
			x.inTbody = false
		}

	case "table":
		if x.inTargetTable {
			// 内側の閉じタグが欠けていても、テーブル内の状態はすべて破棄する
			x.inTargetTable = false
			x.inTbody = false
			x.inRow = false
			x.cellIndex = 0
			x.resetAnchor()
		}
	}
}

func (x *TableExtractor) resetAnchor() {
	x.inAnchor = false
	x.pendingHref = ""
	x.pendingText = x.pendingText[:0]
}

// Links は、これまでに閉じられたアンカーから抽出したリンクを出現順に返します。
// 閉じられていないアンカーは含まれません。
func (x *TableExtractor) Links() []Link {
	out := make([]Link, len(x.links))
	copy(out, x.links)
	return out
}

// ----------------------------------------------------------------------
// エントリポイント
// ----------------------------------------------------------------------

// Extract は HTML 文字列を解析し、対象テーブルのリンクを出現順に返します。
// 対象テーブルが無い場合や壊れたマークアップの場合でもエラーにはならず、
// 抽出できた分だけ (0件を含む) を返します。
func Extract(htmlText string, opts ...Option) []Link {
	links, _ := ExtractFrom(strings.NewReader(htmlText), opts...)
	return links
}

// ExtractFrom は io.Reader から HTML を読み込んで解析します。
// 読み込みエラーが発生した場合も、それまでに抽出できたリンクを返します。
func ExtractFrom(r io.Reader, opts ...Option) ([]Link, error) {
	x := NewTableExtractor(opts...)
	err := scanner.Each(r, x.HandleEvent)
	return x.Links(), err
}

// NormalizeText は改行・タブを含む連続した空白を1つの半角スペースにまとめます。
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
