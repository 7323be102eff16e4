package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML reads mdBook's sidebar markup:
//
//	<ol class="chapter">
//	  <li class="chapter-item"><a href="intro.html">Getting Started</a></li>
//	  <li class="part-title">Contributing</li>
//	  <li class="chapter-item"><a href="cont/issues.html"><strong>1.</strong> Issues</a></li>
//	  <li><ol class="section">...children of the previous chapter...</ol></li>
//	</ol>
//
// Chapters following a part title become children of that title.
func parseHTML(html string) (*Tree, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	top := doc.Find("ol.chapter").First()
	if top.Length() == 0 {
		// Fragments without the outer list still parse as one.
		top = doc.Find("ol").First()
	}
	if top.Length() == 0 {
		return New(nil), nil
	}
	return New(parseList(top)), nil
}

func parseList(ol *goquery.Selection) []*Node {
	var (
		out  []*Node
		part *Node // current part title, if any
		last *Node // last chapter item, owner of a following section list
	)

	add := func(n *Node) {
		if part != nil {
			part.Children = append(part.Children, n)
		} else {
			out = append(out, n)
		}
		last = n
	}

	ol.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		switch {
		case li.HasClass("part-title"):
			part = &Node{Title: strings.TrimSpace(li.Text())}
			out = append(out, part)
			last = nil

		case li.HasClass("spacer"):

		case li.HasClass("chapter-item"):
			n := chapterFromItem(li)
			if n == nil {
				return
			}
			add(n)
			// Newer mdBook versions nest the section list inside the item.
			if sub := li.ChildrenFiltered("ol.section"); sub.Length() > 0 {
				n.Children = append(n.Children, parseList(sub.First())...)
			}

		default:
			sub := li.ChildrenFiltered("ol.section")
			if sub.Length() == 0 {
				return
			}
			children := parseList(sub.First())
			if last == nil {
				// Orphan section: keep the chapters rather than dropping them.
				for _, c := range children {
					add(c)
				}
				last = nil
				return
			}
			last.Children = append(last.Children, children...)
		}
	})
	return out
}

// chapterFromItem returns nil for the empty items mdBook leaves behind
// before part titles.
func chapterFromItem(li *goquery.Selection) *Node {
	a := li.ChildrenFiltered("a").Not(".toggle").First()
	if a.Length() == 0 {
		// Draft chapters render without a link.
		title := strings.TrimSpace(li.ChildrenFiltered("div, span").First().Text())
		if title == "" {
			return nil
		}
		return &Node{Title: title}
	}

	href, _ := a.Attr("href")
	number := strings.TrimSpace(a.Find("strong").First().Text())
	title := strings.TrimSpace(a.Clone().Find("strong").Remove().End().Text())
	return &Node{Title: title, Href: href, Number: number}
}

var errNoInnerHTML = errors.New("toc script: no innerHTML literal")

// extractScriptHTML pulls the single-quoted innerHTML literal out of a
// generated toc.js.
func extractScriptHTML(src string) (string, error) {
	const marker = "innerHTML = '"
	start := strings.Index(src, marker)
	if start < 0 {
		return "", errNoInnerHTML
	}
	start += len(marker)

	var b strings.Builder
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '\\':
			if i+1 < len(src) {
				i++
				b.WriteByte(src[i])
			}
		case '\'':
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("toc script: unterminated innerHTML literal")
}
