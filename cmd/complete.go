package cmd

import (
	"flag"

	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/docs"
	"github.com/etnz/goalfolio/quote"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// dataFiles predicts the files that export and import accept.
var dataFiles = predict.Or(predict.Files("*"+formatCSV), predict.Files("*"+formatText), predict.Files("*"+formatWorkbook))

// flagPredictors predicts flag values by flag name, other flags take any value.
var flagPredictors = map[string]complete.Predictor{
	"config":     predict.Files("*.toml"),
	"store":      predict.Files("*"),
	"store-kind": predict.Set{StoreDir, StoreBolt, StoreMemory},
	"type":       set(goalfolio.AssetClasses),
	"types":      set(goalfolio.AssetClasses),
	"risk":       set(goalfolio.RiskLevels),
	"risks":      set(goalfolio.RiskLevels),
	"mode":       predict.Set{goalfolio.Merge.String(), goalfolio.Replace.String()},
	"active":     predict.Set{"true", "false"},
	"crypto":     predict.Set(quote.CryptoProviders),
	"template":   templateNames(),
}

func templateNames() predict.Set {
	var names predict.Set
	for _, t := range goalfolio.Templates(goalfolio.DefaultCurrency) {
		names = append(names, t.Name)
	}
	return names
}

// argPredictors predicts the positional arguments by command name.
func argPredictors() map[string]complete.Predictor {
	topics, _ := docs.GetAllTopics()
	return map[string]complete.Predictor{
		"export": dataFiles,
		"import": dataFiles,
		"sample": predict.Files("*" + formatCSV),
		"topic":  predict.Set(append(topics, docs.All)),
	}
}

func set[T ~string](values []T) predict.Set {
	s := make(predict.Set, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return s
}

// Completion returns the shell completion of gf, global flags are read from 'global'.
func Completion(global *flag.FlagSet) *complete.Command {
	args := argPredictors()
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(global),
	}
	for _, c := range Commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: predictFlags(fs),
			Args:  args[c.Name()],
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
