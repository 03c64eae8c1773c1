// Package generators holds the registry of card generators: the built-in
// wallet wrapped cards, generators loaded from YAML files, and ad hoc custom
// generators created from user-supplied prompts.
package generators
