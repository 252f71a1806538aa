package gbdt

// treeNode is a flattened regression-tree node. Children index into the same
// node slice; leaves carry the predicted value.
type treeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	Gain       float64 `json:"gain"`
	IsLeaf     bool    `json:"is_leaf"`
}

type regressionTree struct {
	Nodes []treeNode `json:"nodes"`
}

func growTree(features [][]float64, targets []float64, maxDepth, minLeaf int) regressionTree {
	return regressionTree{Nodes: buildNode(features, targets, 0, maxDepth, minLeaf)}
}

func (t regressionTree) predict(features []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Value
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

func buildNode(features [][]float64, targets []float64, depth, maxDepth, minLeaf int) []treeNode {
	value := mean(targets)
	leaf := []treeNode{{
		FeatureIdx: -1,
		LeftChild:  -1,
		RightChild: -1,
		Value:      value,
		IsLeaf:     true,
	}}

	if depth >= maxDepth || len(targets) < 2*minLeaf {
		return leaf
	}

	bestFeature, threshold, gain, ok := findBestSplit(features, targets, minLeaf)
	if !ok {
		return leaf
	}

	leftFeatures, leftTargets, rightFeatures, rightTargets := splitData(features, targets, bestFeature, threshold)
	if len(leftTargets) < minLeaf || len(rightTargets) < minLeaf {
		return leaf
	}

	leftNodes := buildNode(leftFeatures, leftTargets, depth+1, maxDepth, minLeaf)
	rightNodes := buildNode(rightFeatures, rightTargets, depth+1, maxDepth, minLeaf)

	root := treeNode{
		FeatureIdx: bestFeature,
		Threshold:  threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
		Value:      value,
		Gain:       gain,
		IsLeaf:     false,
	}

	nodes := make([]treeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	nodes = append(nodes, offsetChildren(leftNodes, 1)...)
	nodes = append(nodes, offsetChildren(rightNodes, 1+len(leftNodes))...)
	return nodes
}

// offsetChildren shifts child indexes so a subtree can be appended to the
// parent's node slice.
func offsetChildren(nodes []treeNode, offset int) []treeNode {
	for i := range nodes {
		if !nodes[i].IsLeaf {
			nodes[i].LeftChild += offset
			nodes[i].RightChild += offset
		}
	}
	return nodes
}

// findBestSplit evaluates a median-threshold split per feature and keeps the
// one with the largest variance reduction.
func findBestSplit(features [][]float64, targets []float64, minLeaf int) (int, float64, float64, bool) {
	featureCount := len(features[0])
	parentImpurity := variance(targets) * float64(len(targets))

	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	for featureIdx := 0; featureIdx < featureCount; featureIdx++ {
		values := make([]float64, len(features))
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		threshold := median(values)

		leftTargets, rightTargets := splitTargets(features, targets, featureIdx, threshold)
		if len(leftTargets) < minLeaf || len(rightTargets) < minLeaf {
			continue
		}

		childImpurity := variance(leftTargets)*float64(len(leftTargets)) +
			variance(rightTargets)*float64(len(rightTargets))
		gain := parentImpurity - childImpurity
		if gain > bestGain {
			bestGain = gain
			bestFeature = featureIdx
			bestThreshold = threshold
		}
	}

	if bestFeature == -1 {
		return -1, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

func splitData(features [][]float64, targets []float64, featureIdx int, threshold float64) ([][]float64, []float64, [][]float64, []float64) {
	var leftFeatures, rightFeatures [][]float64
	var leftTargets, rightTargets []float64
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftFeatures = append(leftFeatures, feature)
			leftTargets = append(leftTargets, targets[i])
		} else {
			rightFeatures = append(rightFeatures, feature)
			rightTargets = append(rightTargets, targets[i])
		}
	}
	return leftFeatures, leftTargets, rightFeatures, rightTargets
}

func splitTargets(features [][]float64, targets []float64, featureIdx int, threshold float64) ([]float64, []float64) {
	var left, right []float64
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			left = append(left, targets[i])
		} else {
			right = append(right, targets[i])
		}
	}
	return left, right
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sortFloats(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func sortFloats(values []float64) {
	for i := 1; i < len(values); i++ {
		j := i
		for j > 0 && values[j-1] > values[j] {
			values[j-1], values[j] = values[j], values[j-1]
			j--
		}
	}
}
