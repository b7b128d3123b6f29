// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// tidytable applies a YAML recipe of table verbs to a CSV input.
//
// The recipe is a list of steps, each a verb with its arguments:
//
//	steps:
//	  - verb: gather
//	    cols: [a, b]
//	    key: sex
//	    value: count
//	  - verb: group_by
//	    cols: [sex]
//	  - verb: summarise
//	    aggs:
//	      - {name: total, fn: sum, col: count}
//
// Input and output may be local paths or blob URLs such as
// file:///data/in.csv.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jschoeley/tidytable"
	"github.com/jschoeley/tidytable/io/csvio"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	yaml "gopkg.in/yaml.v2"
)

// Config handles configuring the run.
type Config struct {
	Input    string
	Output   string
	Recipe   string
	Parallel int
	MaxRows  int
}

func initFlags() *Config {
	var cfg Config
	flag.StringVar(&cfg.Input, "input", "", "CSV input, a local path or a blob URL")
	flag.StringVar(&cfg.Output, "output", "", "CSV output, a local path or a blob URL; empty prints to stdout")
	flag.StringVar(&cfg.Recipe, "recipe", "", "YAML recipe of verb steps to apply")
	flag.IntVar(&cfg.Parallel, "parallel", 1, "worker goroutines for grouped verbs")
	flag.IntVar(&cfg.MaxRows, "maxrows", 20, "rows to print before eliding, 0 for all")
	return &cfg
}

type recipe struct {
	Steps []step `yaml:"steps"`
}

// step is one verb invocation. Fields beyond Verb are read per verb,
// unused ones are ignored.
type step struct {
	Verb   string            `yaml:"verb"`
	Cols   []string          `yaml:"cols"`
	Col    string            `yaml:"col"`
	Op     string            `yaml:"op"`
	Value  string            `yaml:"value"`
	Key    string            `yaml:"key"`
	Name   string            `yaml:"name"`
	Rename map[string]string `yaml:"rename"`
	Aggs   []agg             `yaml:"aggs"`
	Rows   []int             `yaml:"rows"`
	N      int               `yaml:"n"`
}

type agg struct {
	Name string `yaml:"name"`
	Fn   string `yaml:"fn"`
	Col  string `yaml:"col"`
}

func main() {
	cfg := initFlags()
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(
		slog.String("run", uuid.NewString()))
	ctx := context.Background()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	if cfg.Input == "" || cfg.Recipe == "" {
		return errors.New("both -input and -recipe are required")
	}
	rcp, err := loadRecipe(cfg.Recipe)
	if err != nil {
		return err
	}
	in, err := openInput(ctx, cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	t, err := csvio.Read(in)
	if err != nil {
		return err
	}
	logger.Info("loaded input",
		slog.String("input", cfg.Input),
		slog.Int("rows", t.Len()),
		slog.Int("cols", len(t.Names())))

	out, err := applyRecipe(t, rcp, cfg.Parallel)
	if err != nil {
		return err
	}
	logger.Info("applied recipe",
		slog.Int("steps", len(rcp.Steps)),
		slog.Int("rows", out.Len()))

	if cfg.Output == "" {
		return tidytable.Fprint(os.Stdout, out, tidytable.MaxRows(cfg.MaxRows))
	}
	w, err := openOutput(ctx, cfg.Output)
	if err != nil {
		return err
	}
	if err := csvio.Write(w, out); err != nil {
		w.Close()
		return err
	}
	return errors.Wrap(w.Close(), "close output")
}

func loadRecipe(path string) (*recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read recipe")
	}
	var rcp recipe
	if err := yaml.UnmarshalStrict(data, &rcp); err != nil {
		return nil, errors.Wrap(err, "parse recipe")
	}
	return &rcp, nil
}

// openInput reads from a blob bucket when the name carries a URL
// scheme, and from the local filesystem otherwise.
func openInput(ctx context.Context, name string) (io.ReadCloser, error) {
	bucketURL, key, ok := splitBlobURL(name)
	if !ok {
		f, err := os.Open(name)
		return f, errors.Wrap(err, "open input")
	}
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %q", bucketURL)
	}
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		bucket.Close()
		return nil, errors.Wrapf(err, "open blob %q", key)
	}
	return readCloser{r, bucket}, nil
}

func openOutput(ctx context.Context, name string) (io.WriteCloser, error) {
	bucketURL, key, ok := splitBlobURL(name)
	if !ok {
		f, err := os.Create(name)
		return f, errors.Wrap(err, "create output")
	}
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %q", bucketURL)
	}
	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		bucket.Close()
		return nil, errors.Wrapf(err, "create blob %q", key)
	}
	return writeCloser{w, bucket}, nil
}

// splitBlobURL splits file:///data/in.csv into file:///data and in.csv.
func splitBlobURL(name string) (bucketURL, key string, ok bool) {
	i := strings.Index(name, "://")
	if i < 0 {
		return "", "", false
	}
	dir, key := path.Split(name[i+3:])
	return name[:i+3] + strings.TrimSuffix(dir, "/"), key, true
}

type readCloser struct {
	io.ReadCloser
	bucket *blob.Bucket
}

func (rc readCloser) Close() error {
	err := rc.ReadCloser.Close()
	if cerr := rc.bucket.Close(); err == nil {
		err = cerr
	}
	return err
}

type writeCloser struct {
	io.WriteCloser
	bucket *blob.Bucket
}

func (wc writeCloser) Close() error {
	err := wc.WriteCloser.Close()
	if cerr := wc.bucket.Close(); err == nil {
		err = cerr
	}
	return err
}

// applyRecipe folds the steps over a pipeline.
func applyRecipe(t *tidytable.Table, rcp *recipe, parallel int) (*tidytable.Table, error) {
	p := tidytable.Chain(t)
	for i, s := range rcp.Steps {
		var err error
		p, err = applyStep(p, s, parallel)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i+1, s.Verb)
		}
	}
	return p.Result()
}

func applyStep(p *tidytable.Pipeline, s step, parallel int) (*tidytable.Pipeline, error) {
	switch s.Verb {
	case "select":
		return p.Select(tidytable.Cols(s.Cols...)), nil
	case "drop":
		return p.Select(tidytable.Not(tidytable.Cols(s.Cols...))), nil
	case "rename":
		return p.Rename(s.Rename), nil
	case "filter":
		pred, err := parsePredicate(s)
		if err != nil {
			return nil, err
		}
		return p.Filter(pred), nil
	case "mutate":
		e, err := parseArith(s)
		if err != nil {
			return nil, err
		}
		return p.Mutate(tidytable.Def(s.Name, e)), nil
	case "arrange":
		keys := make([]tidytable.SortKey, len(s.Cols))
		for i, c := range s.Cols {
			if rest, ok := strings.CutPrefix(c, "-"); ok {
				keys[i] = tidytable.Desc(rest)
			} else {
				keys[i] = tidytable.Asc(c)
			}
		}
		return p.Arrange(keys...), nil
	case "slice":
		return p.Slice(s.Rows...), nil
	case "head":
		return p.Head(s.N), nil
	case "drop_na":
		return p.DropNA(s.Cols...), nil
	case "gather":
		return p.PivotLonger(tidytable.Cols(s.Cols...), s.Key, s.Value), nil
	case "spread":
		return p.PivotWider(s.Key, s.Value), nil
	case "group_by":
		return p.GroupBy(s.Cols...).Parallel(parallel), nil
	case "ungroup":
		return p.Ungroup(), nil
	case "summarise":
		defs := make([]tidytable.ColDef, len(s.Aggs))
		for i, a := range s.Aggs {
			e, err := parseAgg(a)
			if err != nil {
				return nil, err
			}
			defs[i] = tidytable.Def(a.Name, e)
		}
		return p.Summarise(defs...), nil
	}
	return nil, errors.Errorf("unknown verb %q", s.Verb)
}

func parsePredicate(s step) (tidytable.Expr, error) {
	if s.Col == "" {
		return tidytable.Expr{}, errors.New("filter needs col")
	}
	if s.Op == "not_na" {
		return tidytable.IsNA(tidytable.Col(s.Col)).Not(), nil
	}
	lhs, rhs := tidytable.Col(s.Col), parseLiteral(s.Value)
	switch s.Op {
	case "eq":
		return lhs.Eq(rhs), nil
	case "ne":
		return lhs.Ne(rhs), nil
	case "lt":
		return lhs.Lt(rhs), nil
	case "le":
		return lhs.Le(rhs), nil
	case "gt":
		return lhs.Gt(rhs), nil
	case "ge":
		return lhs.Ge(rhs), nil
	}
	return tidytable.Expr{}, errors.Errorf("unknown filter op %q", s.Op)
}

// parseArith builds col op value, where value may itself name a column.
func parseArith(s step) (tidytable.Expr, error) {
	if s.Name == "" || s.Col == "" {
		return tidytable.Expr{}, errors.New("mutate needs name and col")
	}
	lhs := tidytable.Col(s.Col)
	if s.Op == "" {
		return lhs, nil
	}
	rhs := parseOperand(s.Value)
	switch s.Op {
	case "add":
		return lhs.Add(rhs), nil
	case "sub":
		return lhs.Sub(rhs), nil
	case "mul":
		return lhs.Mul(rhs), nil
	case "div":
		return lhs.Div(rhs), nil
	}
	return tidytable.Expr{}, errors.Errorf("unknown mutate op %q", s.Op)
}

func parseAgg(a agg) (tidytable.Expr, error) {
	if a.Fn == "n" {
		return tidytable.N(), nil
	}
	if a.Col == "" {
		return tidytable.Expr{}, errors.Errorf("aggregate %q needs col", a.Fn)
	}
	e := tidytable.Col(a.Col)
	switch a.Fn {
	case "sum":
		return tidytable.Sum(e), nil
	case "mean":
		return tidytable.Mean(e), nil
	case "geomean":
		return tidytable.GeoMean(e), nil
	case "median":
		return tidytable.Median(e), nil
	case "min":
		return tidytable.Min(e), nil
	case "max":
		return tidytable.Max(e), nil
	case "first":
		return tidytable.First(e), nil
	case "last":
		return tidytable.Last(e), nil
	}
	return tidytable.Expr{}, errors.Errorf("unknown aggregate %q", a.Fn)
}

// parseLiteral reads a YAML scalar as the narrowest matching literal.
func parseLiteral(s string) tidytable.Expr {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return tidytable.Lit(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return tidytable.Lit(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return tidytable.Lit(b)
	}
	return tidytable.Lit(s)
}

// parseOperand treats bare identifiers as column references and
// anything numeric as a literal.
func parseOperand(s string) tidytable.Expr {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return parseLiteral(s)
	}
	return tidytable.Col(s)
}
