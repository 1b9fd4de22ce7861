package layers

import "github.com/Benny93/layerviz/internal/scheme"

// torchModules lists the public classes torch.nn exports from each of its
// layer submodules, keyed by the submodule (= category) name.
var torchModules = []struct {
	category scheme.Key
	names    []string
}{
	{scheme.Activation, []string{
		"Threshold", "ReLU", "RReLU", "Hardtanh", "ReLU6", "Sigmoid",
		"Hardsigmoid", "Tanh", "SiLU", "Mish", "Hardswish", "ELU", "CELU",
		"SELU", "GLU", "GELU", "Hardshrink", "LeakyReLU", "LogSigmoid",
		"Softplus", "Softshrink", "MultiheadAttention", "PReLU", "Softsign",
		"Tanhshrink", "Softmin", "Softmax", "Softmax2d", "LogSoftmax",
	}},
	{scheme.Adaptive, []string{"AdaptiveLogSoftmaxWithLoss"}},
	{scheme.BatchNorm, []string{
		"BatchNorm1d", "LazyBatchNorm1d", "BatchNorm2d", "LazyBatchNorm2d",
		"BatchNorm3d", "LazyBatchNorm3d", "SyncBatchNorm",
	}},
	{scheme.ChannelShuffle, []string{"ChannelShuffle"}},
	{scheme.Container, []string{
		"Container", "Sequential", "ModuleList", "ModuleDict",
		"ParameterList", "ParameterDict",
	}},
	{scheme.Conv, []string{
		"Conv1d", "Conv2d", "Conv3d",
		"ConvTranspose1d", "ConvTranspose2d", "ConvTranspose3d",
		"LazyConv1d", "LazyConv2d", "LazyConv3d",
		"LazyConvTranspose1d", "LazyConvTranspose2d", "LazyConvTranspose3d",
	}},
	{scheme.Distance, []string{"PairwiseDistance", "CosineSimilarity"}},
	{scheme.Dropout, []string{
		"Dropout", "Dropout1d", "Dropout2d", "Dropout3d", "AlphaDropout",
		"FeatureAlphaDropout",
	}},
	{scheme.Flatten, []string{"Flatten", "Unflatten"}},
	{scheme.Fold, []string{"Fold", "Unfold"}},
	{scheme.InstanceNorm, []string{
		"InstanceNorm1d", "InstanceNorm2d", "InstanceNorm3d",
		"LazyInstanceNorm1d", "LazyInstanceNorm2d", "LazyInstanceNorm3d",
	}},
	{scheme.Lazy, []string{"LazyModuleMixin"}},
	{scheme.Linear, []string{"Bilinear", "Identity", "LazyLinear", "Linear"}},
	{scheme.Normalization, []string{
		"LocalResponseNorm", "CrossMapLRN2d", "LayerNorm", "GroupNorm", "RMSNorm",
	}},
	{scheme.Padding, []string{
		"CircularPad1d", "CircularPad2d", "CircularPad3d",
		"ConstantPad1d", "ConstantPad2d", "ConstantPad3d",
		"ReflectionPad1d", "ReflectionPad2d", "ReflectionPad3d",
		"ReplicationPad1d", "ReplicationPad2d", "ReplicationPad3d",
		"ZeroPad1d", "ZeroPad2d", "ZeroPad3d",
	}},
	{scheme.PixelShuffle, []string{"PixelShuffle", "PixelUnshuffle"}},
	{scheme.Pooling, []string{
		"AdaptiveAvgPool1d", "AdaptiveAvgPool2d", "AdaptiveAvgPool3d",
		"AdaptiveMaxPool1d", "AdaptiveMaxPool2d", "AdaptiveMaxPool3d",
		"AvgPool1d", "AvgPool2d", "AvgPool3d",
		"FractionalMaxPool2d", "FractionalMaxPool3d",
		"LPPool1d", "LPPool2d", "LPPool3d",
		"MaxPool1d", "MaxPool2d", "MaxPool3d",
		"MaxUnpool1d", "MaxUnpool2d", "MaxUnpool3d",
	}},
	{scheme.RNN, []string{
		"RNNBase", "RNN", "LSTM", "GRU", "RNNCellBase", "RNNCell", "LSTMCell",
		"GRUCell",
	}},
	{scheme.Sparse, []string{"Embedding", "EmbeddingBag"}},
	{scheme.Transformer, []string{
		"TransformerEncoder", "TransformerDecoder", "TransformerEncoderLayer",
		"TransformerDecoderLayer", "Transformer",
	}},
	{scheme.Upsampling, []string{
		"UpsamplingNearest2d", "UpsamplingBilinear2d", "Upsample",
	}},
}

// TorchRegistry returns a fresh registry holding the torch.nn layer classes.
func TorchRegistry() *Registry {
	r := NewRegistry()
	for _, m := range torchModules {
		r.MustRegister(m.category, m.names...)
	}
	return r
}
