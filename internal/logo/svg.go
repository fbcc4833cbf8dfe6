// Package logo validates and sanitizes model-produced SVG logo markup.
package logo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrEmpty      = errors.New("logo markup is empty")
	ErrNotSVG     = errors.New("logo markup does not start with <svg")
	ErrMalformed  = errors.New("logo markup could not be parsed")
	ErrMissingSVG = errors.New("logo markup has no svg root")
)

// Elements removed wholesale from logo markup.
var blockedElements = map[string]bool{
	"script":        true,
	"foreignobject": true,
	"iframe":        true,
	"object":        true,
	"embed":         true,
	"audio":         true,
	"video":         true,
}

// Sanitize returns the outer markup of the first <svg> element with scripts,
// event handler attributes and javascript: references removed.
// Input that does not start with <svg (after trimming) is rejected.
func Sanitize(markup string) (string, error) {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return "", ErrEmpty
	}
	if !strings.HasPrefix(strings.ToLower(markup), "<svg") {
		return "", ErrNotSVG
	}

	svg, err := parse(markup)
	if err != nil {
		return "", err
	}

	svg.Find("*").FilterFunction(func(_ int, el *goquery.Selection) bool {
		return blockedElements[strings.ToLower(goquery.NodeName(el))]
	}).Remove()
	svg.Find("*").AddSelection(svg).Each(func(_ int, el *goquery.Selection) {
		stripUnsafeAttributes(el)
	})

	out, err := goquery.OuterHtml(svg)
	if err != nil {
		return "", ErrMalformed
	}
	return out, nil
}

// Resize sanitizes markup and forces square width/height attributes, keeping the viewBox.
func Resize(markup string, size int) (string, error) {
	clean, err := Sanitize(markup)
	if err != nil {
		return "", err
	}
	svg, err := parse(clean)
	if err != nil {
		return "", err
	}
	px := strconv.Itoa(size)
	svg.SetAttr("width", px)
	svg.SetAttr("height", px)
	if _, ok := svg.Attr("viewBox"); !ok {
		svg.SetAttr("viewBox", "0 0 "+px+" "+px)
	}
	out, err := goquery.OuterHtml(svg)
	if err != nil {
		return "", ErrMalformed
	}
	return out, nil
}

// IsValid reports whether markup survives Sanitize.
func IsValid(markup string) bool {
	_, err := Sanitize(markup)
	return err == nil
}

func parse(markup string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, ErrMalformed
	}
	svg := doc.Find("svg").First()
	if svg.Length() == 0 {
		return nil, ErrMissingSVG
	}
	return svg, nil
}

func stripUnsafeAttributes(el *goquery.Selection) {
	if len(el.Nodes) == 0 {
		return
	}
	var drop []string
	for _, attr := range el.Nodes[0].Attr {
		key := strings.ToLower(attr.Key)
		val := strings.ToLower(strings.TrimSpace(attr.Val))
		switch {
		case strings.HasPrefix(key, "on"):
			drop = append(drop, attr.Key)
		case key == "href" && (strings.HasPrefix(val, "javascript:") || strings.HasPrefix(val, "http")):
			drop = append(drop, attr.Key)
		case strings.Contains(val, "javascript:"):
			drop = append(drop, attr.Key)
		}
	}
	for _, key := range drop {
		el.RemoveAttr(key)
	}
}
