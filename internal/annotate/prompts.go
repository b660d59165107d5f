package annotate

import (
	"fmt"
	"os"
	"strings"
)

// DefaultNarrativeInstruction asks the model to extract narrative roles and
// salient events from a single short story.
const DefaultNarrativeInstruction = `You receive a piece of text with a small story.
Identify in the piece of text the salient elements which constitutes relevant narrative roles, for example:
Story: "The dog was sleeping when the bird hit him on the nose. A cat arrived to help the poor dog and together got rid
of the evil bird."
{
"Characters": {
"Main Character" : "Dog",
"Helping Character" : "Cat",
"Antagonist" : "Cat"
}
}

Introduce new roles accordingly to the elements that you identify as relevant in the story, the important is that you keep
track of all the participants which are relevant for the small story.
In addition to this, focus on salient events and relevant moments in the narrative, e.g.
{
"Events": {
    "Event1": "Aggression by the Bird against the Dog",
    "Event2": "Help provided by the Cat to the Dog",
    "Event3": "Fight between the Dog and the Cat vs the Bird",
    "Event4": "Defeat of the Bird"
}
}

Avoid comments which are not part of the json templates. Print only the annotations.`

// DefaultComparisonInstruction asks the model to align two annotation sets
// and classify entities as Previous, Persistent, or Newly Introduced.
const DefaultComparisonInstruction = `You are given two sets of annotations in json like format.
Your task is to check both the annotations, and if there are overlaps report them in the output. Note that the overlap
could be perfect, e.g.
"Hero" : "Dog"
"Hero" : "Dog"
or could be fuzzy, like
"Hero" : "Dog"
"Protagonist" : "Black Dog".

You have to check for these overlaps and align them despite their imperfect overlap, they just have to point at the
same entities, maybe expressed in a slightly different way.
For entities which are in "First" but not in "Second" store them in json like structure such as:
{ "Previous" : { ...} }
For entities which are in both "First" and "Second" store them in json like structure such as:
{ "Persistent" : { ...} }
For entities which are not in "First" but are introduced in "Second" store them in json like structure such as:
{ "Newly Introduced" : { ...} }
Avoid comments which are not part of the json templates. Print only the annotations.`

// InstructionFromFile loads an instruction template from a file, falling
// back to the given default when path is empty.
func InstructionFromFile(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read instruction file: %w", err)
	}

	instruction := strings.TrimSpace(string(data))
	if instruction == "" {
		return "", fmt.Errorf("instruction file %s is empty", path)
	}
	return instruction, nil
}
