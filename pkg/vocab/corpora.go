package vocab

import "bytes"

// Built-in vocabularies are trained at first use from small embedded
// sample corpora rather than shipped as precomputed tables, so that
// Default and ForLanguage always reflect exactly what pkg/bpe.Trainer
// would learn from this package's corpora (see cmd/mkdict for the
// offline equivalent, which writes the trained ranks out as Go source
// instead of training them in-process).
//
// Each snippet is repeated 24 times. Repetition raises pair counts but
// not the number of merges a corpus supports: once every copy of the
// snippet has collapsed into one token, only a few rounds remain before
// the stream is a single token. Training on these corpora therefore
// ends with ErrNoPairsAvailable after a few hundred merges, well short
// of textMerges/langMerges, and train keeps that partial vocabulary.

const textSnippet = `The quick brown fox jumps over the lazy dog. Pack my box
with five dozen liquor jugs. How vexingly quick daft zebras jump! The
five boxing wizards jump quickly. Sphinx of black quartz, judge my vow.
A wizard's job is to vex chumps quickly in fog. Amazingly few discotheques
provide jukeboxes. The job requires extra pluck and zeal from every young
wage earner. We promptly judged antique ivory buckles for the next prize.
Jinxed wizards pluck ivy from the big quilt. Five quacking zephyrs jolt
my wax bed. Quick zephyrs blow, vexing daft Jim. Waltz, bad nymph, for
quick jigs vex. The report, by the way, is due on Friday afternoon before
the weekly status meeting begins.
`

const goSnippet = `package example

import (
	"fmt"
	"strings"
)

func main() {
	fmt.Println("starting up")
	result := process([]string{"a", "b", "c"})
	fmt.Println(result)
}

func process(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item)
	}
	return sb.String()
}

func helper(x int, y int) (int, error) {
	if y == 0 {
		return 0, fmt.Errorf("helper: divide by zero")
	}
	return x / y, nil
}

type Config struct {
	Name    string
	Retries int
	Timeout int
}

func NewConfig(name string) *Config {
	return &Config{Name: name, Retries: 3, Timeout: 30}
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name required")
	}
	return nil
}
`

const pythonSnippet = `import sys
import json


def main():
    data = load_config("config.json")
    result = process(data)
    print(result)


def load_config(path):
    with open(path) as f:
        return json.load(f)


def process(items):
    total = 0
    for item in items:
        total += item.get("value", 0)
    return total


class Config:
    def __init__(self, name, retries=3, timeout=30):
        self.name = name
        self.retries = retries
        self.timeout = timeout

    def validate(self):
        if not self.name:
            raise ValueError("name required")
        return True


def helper(x, y):
    if y == 0:
        raise ZeroDivisionError("helper: divide by zero")
    return x / y


if __name__ == "__main__":
    main()
`

const jsSnippet = `const fs = require("fs");

function main() {
  const data = loadConfig("config.json");
  const result = process(data);
  console.log(result);
}

function loadConfig(path) {
  const raw = fs.readFileSync(path, "utf8");
  return JSON.parse(raw);
}

function process(items) {
  let total = 0;
  for (const item of items) {
    total += item.value || 0;
  }
  return total;
}

class Config {
  constructor(name, retries = 3, timeout = 30) {
    this.name = name;
    this.retries = retries;
    this.timeout = timeout;
  }

  validate() {
    if (!this.name) {
      throw new Error("name required");
    }
    return true;
  }
}

const helper = (x, y) => {
  if (y === 0) {
    throw new Error("helper: divide by zero");
  }
  return x / y;
};

module.exports = { main, Config, helper };
`

var (
	textCorpus   = bytes.Repeat([]byte(textSnippet), 24)
	goCorpus     = bytes.Repeat([]byte(goSnippet), 24)
	pythonCorpus = bytes.Repeat([]byte(pythonSnippet), 24)
	jsCorpus     = bytes.Repeat([]byte(jsSnippet), 24)
)
