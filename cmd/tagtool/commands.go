package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{Indent: 2}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "d",
			Aliases:     []string{"dialect"},
			Description: "binary dialect: big-endian/be/java, little-endian/le/bedrock, network/varint",
			Type:        cli.NamedFuncOpt(cfg.dialectFunc, "(dialect)"),
		},
		&cli.Opt{
			Name:        "z",
			Aliases:     []string{"compression"},
			Description: "compression for written files: none, gzip, zlib, snappy",
			Type:        cli.NamedFuncOpt(cfg.compressionFunc, "(compression)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: snbt/s, json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "tagtool").
		WithSynopsis("tagtool [opts] command [opts]").
		WithDescription("tagtool inspects and edits tag storage files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tagtoolMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			GetCommand(cfg),
			SetCommand(cfg),
			RmCommand(cfg),
			KeysCommand(cfg),
			ConvertCommand(cfg),
			DiffCommand(cfg),
			CheckCommand(cfg),
			StatCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("print tag files as text, reading stdin without files").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("print the value at a dotted path").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func SetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Set, "set").
		WithAliases("s").
		WithSynopsis("set [-s] <path> <snbt value> <file>").
		WithDescription("set the value at a dotted path, creating compounds on the way").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return set(cfg, cc, args)
		})
}

func RmCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RmConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Rm, "rm").
		WithSynopsis("rm <path> <file>").
		WithDescription("remove the value at a dotted path").
		WithRun(func(cc *cli.Context, args []string) error {
			return rm(cfg, cc, args)
		})
}

func KeysCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &KeysConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Keys, "keys").
		WithAliases("k", "ls").
		WithSynopsis("keys [-r] [path] <file>").
		WithDescription("list the names in a compound").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return keys(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts := []*cli.Opt{
		&cli.Opt{
			Name:        "to",
			Description: "dialect of the output file (default: the input dialect)",
			Type:        cli.NamedFuncOpt(cfg.toDialectFunc, "(dialect)"),
		},
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c", "cv").
		WithSynopsis("convert [-to dialect] <in> <out>").
		WithDescription("convert between dialects, compressions and text (.snbt, .json, .yaml)").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [-r] [-text] a b").
		WithDescription("diff two tag files, exiting 1 if they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithSynopsis("check [-q] <expr> [files]").
		WithDescription("evaluate a boolean expression against tag files, exiting 1 if any is false").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func StatCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StatConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Stat, "stat").
		WithSynopsis("stat [files]").
		WithDescription("summarize the encoding and shape of tag files").
		WithRun(func(cc *cli.Context, args []string) error {
			return stat(cfg, cc, args)
		})
}
