package training

import (
	"math/rand"
)

// ClassReport holds per-class evaluation metrics.
type ClassReport struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// stratifiedSplit partitions sample indices into train and test sets,
// preserving the class proportions of labels. Deterministic for a given rng.
func stratifiedSplit(rng *rand.Rand, labels []int, testFraction float64) (train, test []int) {
	groups := make(map[int][]int)
	for i, label := range labels {
		groups[label] = append(groups[label], i)
	}

	// Iterate classes in a stable order so the split only depends on the rng.
	maxLabel := 0
	for label := range groups {
		if label > maxLabel {
			maxLabel = label
		}
	}

	for label := 0; label <= maxLabel; label++ {
		group := groups[label]
		if len(group) == 0 {
			continue
		}
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		nTest := int(float64(len(group)) * testFraction)
		if nTest == 0 && len(group) > 1 {
			nTest = 1
		}
		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}

	return train, test
}

// accuracy is the fraction of predictions matching the true labels.
func accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// classificationReport computes precision, recall and F1 per class. The
// returned slice is indexed by class label.
func classificationReport(yTrue, yPred []int, numClasses int) []ClassReport {
	truePos := make([]int, numClasses)
	falsePos := make([]int, numClasses)
	falseNeg := make([]int, numClasses)
	support := make([]int, numClasses)

	for i := range yTrue {
		support[yTrue[i]]++
		if yTrue[i] == yPred[i] {
			truePos[yTrue[i]]++
		} else {
			falsePos[yPred[i]]++
			falseNeg[yTrue[i]]++
		}
	}

	reports := make([]ClassReport, numClasses)
	for c := 0; c < numClasses; c++ {
		r := ClassReport{Support: support[c]}
		if truePos[c]+falsePos[c] > 0 {
			r.Precision = float64(truePos[c]) / float64(truePos[c]+falsePos[c])
		}
		if truePos[c]+falseNeg[c] > 0 {
			r.Recall = float64(truePos[c]) / float64(truePos[c]+falseNeg[c])
		}
		if r.Precision+r.Recall > 0 {
			r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		reports[c] = r
	}

	return reports
}
